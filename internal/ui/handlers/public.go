// public.go — публичные страницы: список файлов с поиском,
// карточка файла, скачивание, справка.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Gabo-araya/metadatos-app/internal/config"
	"github.com/Gabo-araya/metadatos-app/internal/domain/model"
	"github.com/Gabo-araya/metadatos-app/internal/repository"
	"github.com/Gabo-araya/metadatos-app/internal/service"
	"github.com/Gabo-araya/metadatos-app/internal/storage/filestore"
	"github.com/Gabo-araya/metadatos-app/internal/ui/auth"
	"github.com/Gabo-araya/metadatos-app/internal/ui/templates"
)

// PublicHandler — обработчики страниц, доступных без входа.
type PublicHandler struct {
	cfg            *config.Config
	query          *service.FileQueryService
	store          *filestore.FileStore
	activity       repository.ActivityLogRepository
	sessionManager *auth.SessionManager
	renderer       *templates.Renderer
	logger         *slog.Logger
}

// NewPublicHandler создаёт новый PublicHandler.
func NewPublicHandler(
	cfg *config.Config,
	query *service.FileQueryService,
	store *filestore.FileStore,
	activity repository.ActivityLogRepository,
	sessionManager *auth.SessionManager,
	renderer *templates.Renderer,
	logger *slog.Logger,
) *PublicHandler {
	return &PublicHandler{
		cfg:            cfg,
		query:          query,
		store:          store,
		activity:       activity,
		sessionManager: sessionManager,
		renderer:       renderer,
		logger:         logger.With(slog.String("component", "ui.public")),
	}
}

// baseData собирает общие данные страницы: имя вошедшего администратора
// (если сессия валидна) и flash-сообщение.
func (h *PublicHandler) baseData(w http.ResponseWriter, r *http.Request, title string) templates.BaseData {
	data := templates.BaseData{
		Title:   title,
		Version: config.Version,
	}

	if session, err := h.sessionManager.GetSessionFromRequest(r); err == nil && session != nil {
		if !session.IsExpired(h.sessionManager.TTL()) {
			data.Username = session.Username
		}
	}

	data.FlashKind, data.Flash = popFlash(w, r)
	return data
}

// renderError рендерит страницу ошибки с заданным статусом.
func (h *PublicHandler) renderError(w http.ResponseWriter, r *http.Request, code int, message string) {
	h.renderer.RenderStatus(w, code, templates.PageError, templates.ErrorData{
		BaseData: h.baseData(w, r, "Ошибка"),
		Code:     code,
		Message:  message,
	})
}

// HandleIndex обрабатывает GET / — список файлов с поиском и пагинацией.
func (h *PublicHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
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
		h.renderError(w, r, http.StatusInternalServerError, "Не удалось получить список файлов")
		return
	}

	h.renderer.Render(w, templates.PageIndex, templates.IndexData{
		BaseData:   h.baseData(w, r, "Файлы"),
		Files:      files,
		Pagination: pagination,
		Search:     search,
		BasePath:   "/",
	})
}

// HandleHelp обрабатывает GET /help — страница справки.
func (h *PublicHandler) HandleHelp(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, templates.PageHelp, h.baseData(w, r, "Справка"))
}

// HandleDetail обрабатывает GET /file/{id} — карточка файла.
func (h *PublicHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderError(w, r, http.StatusNotFound, "Файл не найден")
		return
	}

	detail, err := h.query.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(w, r, http.StatusNotFound, "Файл не найден")
			return
		}
		h.logger.Error("Ошибка получения файла",
			slog.Int64("file_id", id),
			slog.String("error", err.Error()),
		)
		h.renderError(w, r, http.StatusInternalServerError, "Не удалось получить файл")
		return
	}

	base := h.baseData(w, r, detail.Title)

	// Журнал по файлу показывается только вошедшему администратору.
	// Ошибка чтения журнала карточку не блокирует.
	var events []*model.ActivityLog
	if base.Username != "" {
		events, err = h.activity.ListByFile(r.Context(), id)
		if err != nil {
			h.logger.Warn("Ошибка получения журнала по файлу",
				slog.Int64("file_id", id),
				slog.String("error", err.Error()),
			)
			events = nil
		}
	}

	h.renderer.Render(w, templates.PageDetail, templates.DetailData{
		BaseData: base,
		File:     detail,
		Activity: events,
	})
}

// HandleDownload обрабатывает GET /file/{id}/download — отдача blob.
// Файл отдаётся потоково с Content-Disposition attachment и исходным
// именем файла.
func (h *PublicHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderError(w, r, http.StatusNotFound, "Файл не найден")
		return
	}

	detail, err := h.query.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(w, r, http.StatusNotFound, "Файл не найден")
			return
		}
		h.renderError(w, r, http.StatusInternalServerError, "Не удалось получить файл")
		return
	}

	f, err := h.store.Open(detail.StoredName)
	if err != nil {
		h.logger.Warn("Blob недоступен для скачивания",
			slog.Int64("file_id", id),
			slog.String("stored_name", detail.StoredName),
			slog.String("error", err.Error()),
		)
		h.renderError(w, r, http.StatusNotFound, "Файл недоступен на сервере")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", detail.OriginalName))
	if detail.MimeType != "" {
		w.Header().Set("Content-Type", detail.MimeType)
	}

	http.ServeContent(w, r, detail.StoredName, detail.UploadDate, f)
}
