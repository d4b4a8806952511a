// Пакет templates — встроенные HTML-шаблоны UI.
// Шаблоны встраиваются в бинарник через //go:embed и парсятся
// один раз при старте; каждая страница собирается из base.html,
// общих partial-ов и собственного файла.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/Gabo-araya/metadatos-app/internal/domain/model"
	"github.com/Gabo-araya/metadatos-app/internal/service"
)

//go:embed *.html
var content embed.FS

// Имена страниц для Renderer.Render.
const (
	PageIndex  = "index.html"
	PageDetail = "detail.html"
	PageHelp   = "help.html"
	PageLogin  = "login.html"
	PageAdmin  = "admin.html"
	PageError  = "error.html"
)

// Общие partial-ы, доступные каждой странице.
var partialFiles = []string{"base.html", "pagination.html"}

// BaseData — данные, общие для всех страниц.
type BaseData struct {
	// Title — заголовок страницы.
	Title string
	// Username — имя вошедшего администратора, пустое для гостя.
	Username string
	// Flash, FlashKind — одноразовое сообщение и его тип
	// (success, danger, warning).
	Flash     string
	FlashKind string
	// Version — версия приложения для footer.
	Version string
}

// IndexData — данные главной страницы со списком файлов.
type IndexData struct {
	BaseData
	Files      []*model.FileRecord
	Pagination *service.Pagination
	Search     string
	// BasePath — базовый путь для ссылок пагинации.
	BasePath string
}

// DetailData — данные страницы детального просмотра файла.
type DetailData struct {
	BaseData
	File *service.FileDetail
	// Activity — события журнала по этому файлу;
	// заполняется только для вошедшего администратора.
	Activity []*model.ActivityLog
}

// AdminData — данные админ-панели.
type AdminData struct {
	BaseData
	Files      []*model.FileRecord
	Pagination *service.Pagination
	Search     string
	BasePath   string
	Stats      *model.FileStats
	Activity   []*model.ActivityLog
	// MaxUploadSize — человекочитаемый лимит размера загрузки.
	MaxUploadSize string
}

// ErrorData — данные страницы ошибки.
type ErrorData struct {
	BaseData
	Code    int
	Message string
	// ErrorID — короткий идентификатор для поиска в логах.
	ErrorID string
}

// Renderer — потокобезопасный рендерер страниц.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// funcMap — функции форматирования, доступные в шаблонах.
var funcMap = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.Local().Format("02.01.2006 15:04")
	},
	"fmtBytes": FormatBytes,
	"seq": func(n int) []int {
		s := make([]int, n)
		for i := range s {
			s[i] = i + 1
		}
		return s
	},
}

// FormatBytes форматирует размер в байтах в человекочитаемый вид.
func FormatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// NewRenderer парсит все встроенные страницы.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	pages := map[string]*template.Template{}

	for _, page := range []string{PageIndex, PageDetail, PageHelp, PageLogin, PageAdmin, PageError} {
		files := append(append([]string{}, partialFiles...), page)
		tmpl, err := template.New(page).Funcs(funcMap).ParseFS(content, files...)
		if err != nil {
			return nil, fmt.Errorf("ошибка парсинга шаблона %s: %w", page, err)
		}
		pages[page] = tmpl
	}

	return &Renderer{
		pages:  pages,
		logger: logger.With(slog.String("component", "templates")),
	}, nil
}

// Render рендерит страницу со статусом 200.
func (r *Renderer) Render(w http.ResponseWriter, page string, data any) {
	r.RenderStatus(w, http.StatusOK, page, data)
}

// RenderStatus рендерит страницу с заданным HTTP-статусом.
// Рендеринг идёт в буфер: при ошибке шаблона клиент получает 500,
// а не половину страницы.
func (r *Renderer) RenderStatus(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := r.pages[page]
	if !ok {
		r.logger.Error("Неизвестный шаблон страницы", slog.String("page", page))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		r.logger.Error("Ошибка рендеринга шаблона",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
