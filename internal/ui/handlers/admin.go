// admin.go — панель администратора: загрузка файлов, удаление,
// статистика и журнал активности.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Gabo-araya/metadatos-app/internal/config"
	"github.com/Gabo-araya/metadatos-app/internal/repository"
	"github.com/Gabo-araya/metadatos-app/internal/service"
	uimiddleware "github.com/Gabo-araya/metadatos-app/internal/ui/middleware"
	"github.com/Gabo-araya/metadatos-app/internal/ui/templates"
)

// Количество событий журнала активности на панели.
const recentActivityLimit = 10

// Запас к лимиту тела запроса на multipart-обвязку и текстовые поля.
const multipartOverhead = 1 << 20

// Лимит памяти для разбора multipart-формы, остальное уходит на диск.
const multipartMemoryLimit = 8 << 20

// AdminHandler — обработчики панели администратора.
type AdminHandler struct {
	cfg      *config.Config
	upload   *service.UploadService
	query    *service.FileQueryService
	activity repository.ActivityLogRepository
	renderer *templates.Renderer
	logger   *slog.Logger
}

// NewAdminHandler создаёт новый AdminHandler.
func NewAdminHandler(
	cfg *config.Config,
	upload *service.UploadService,
	query *service.FileQueryService,
	activity repository.ActivityLogRepository,
	renderer *templates.Renderer,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		cfg:      cfg,
		upload:   upload,
		query:    query,
		activity: activity,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.admin")),
	}
}

// HandlePanel обрабатывает GET /admin — панель администратора.
func (h *AdminHandler) HandlePanel(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	search := r.URL.Query().Get("q")

	files, pagination, err := h.query.List(r.Context(), page, h.cfg.PageSize, search)
	if err != nil {
		h.logger.Error("Ошибка получения списка файлов",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	stats, err := h.query.Stats(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения статистики",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	recent, err := h.activity.ListRecent(r.Context(), recentActivityLimit)
	if err != nil {
		// Панель остаётся работоспособной без журнала
		h.logger.Warn("Ошибка получения журнала активности",
			slog.String("error", err.Error()),
		)
	}

	flashKind, flash := popFlash(w, r)
	h.renderer.Render(w, templates.PageAdmin, templates.AdminData{
		BaseData: templates.BaseData{
			Title:     "Панель администратора",
			Username:  session.Username,
			Flash:     flash,
			FlashKind: flashKind,
			Version:   config.Version,
		},
		Files:         files,
		Pagination:    pagination,
		Search:        search,
		BasePath:      "/admin",
		Stats:         stats,
		Activity:      recent,
		MaxUploadSize: templates.FormatBytes(h.cfg.MaxContentLength),
	})
}

// HandleUpload обрабатывает POST /admin — загрузка файла с метаданными.
// Тело запроса ограничено MaxContentLength плюс запас на multipart-обвязку;
// превышение обрывает чтение до записи чего-либо на диск.
func (h *AdminHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxContentLength+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			setFlash(w, flashDanger, "Файл превышает допустимый размер "+
				templates.FormatBytes(h.cfg.MaxContentLength))
		} else {
			h.logger.Warn("Ошибка разбора multipart-формы",
				slog.String("error", err.Error()),
			)
			setFlash(w, flashDanger, "Ошибка разбора формы загрузки")
		}
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		setFlash(w, flashDanger, "Файл не выбран")
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	defer file.Close()

	record, err := h.upload.Ingest(r.Context(), service.IngestParams{
		Title:        r.PostFormValue("title"),
		Description:  r.PostFormValue("description"),
		Subject:      r.PostFormValue("subject"),
		OriginalName: header.Filename,
		Reader:       file,
		DeclaredSize: header.Size,
		MimeType:     header.Header.Get("Content-Type"),
		Actor:        session.Username,
		RemoteAddr:   r.RemoteAddr,
		UserAgent:    r.UserAgent(),
	})
	if err != nil {
		if service.IsReject(err) {
			setFlash(w, flashWarning, "Загрузка отклонена: "+err.Error())
		} else {
			h.logger.Error("Ошибка загрузки файла",
				slog.String("error", err.Error()),
			)
			setFlash(w, flashDanger, "Не удалось загрузить файл")
		}
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	setFlash(w, flashSuccess, "Файл «"+record.Title+"» загружен")
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// HandleDelete обрабатывает POST /admin/delete/{id} — удаление файла.
func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		setFlash(w, flashDanger, "Некорректный идентификатор файла")
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	err = h.upload.Delete(r.Context(), id, session.Username, r.RemoteAddr, r.UserAgent())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			setFlash(w, flashWarning, "Файл не найден")
		} else {
			h.logger.Error("Ошибка удаления файла",
				slog.Int64("file_id", id),
				slog.String("error", err.Error()),
			)
			setFlash(w, flashDanger, "Не удалось удалить файл")
		}
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	setFlash(w, flashSuccess, "Файл удалён")
	http.Redirect(w, r, "/admin", http.StatusFound)
}
