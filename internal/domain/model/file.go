// Пакет model — доменные модели Metadatos.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Значения Dublin Core по умолчанию для новых записей.
const (
	DefaultCreator  = "Metadatos App Admin"
	DefaultLanguage = "es"
	DefaultRights   = "© Metadatos App. Todos los derechos reservados."
)

// FileRecord — запись о загруженном файле.
// StoredName уникально и неизменно указывает на blob в директории загрузок;
// OriginalName хранится только для отображения и никогда не используется
// при построении путей.
type FileRecord struct {
	// ID — идентификатор записи, назначается при создании.
	ID int64
	// Title — заголовок, очищенный от HTML, до 255 символов.
	Title string
	// Description — описание, очищенное от HTML, до 1000 символов.
	Description string
	// StoredName — имя blob в директории загрузок, уникальное.
	StoredName string
	// OriginalName — имя файла, присланное клиентом (только для отображения).
	OriginalName string
	// SizeBytes — размер сохранённого blob в байтах.
	SizeBytes int64
	// MimeType — MIME-тип из заголовка multipart part.
	MimeType string
	// Creator — Dublin Core: создатель записи.
	Creator string
	// Subject — Dublin Core: ключевые слова, до 500 символов.
	Subject string
	// Language — Dublin Core: язык содержимого.
	Language string
	// Rights — Dublin Core: права.
	Rights string
	// UploadDate — момент загрузки.
	UploadDate time.Time
	// CreatedAt, UpdatedAt — служебные метки времени записи.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Наборы расширений по категориям.
var (
	imageExtensions        = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true, "webp": true}
	documentExtensions     = map[string]bool{"pdf": true, "doc": true, "docx": true, "txt": true, "rtf": true, "odt": true}
	spreadsheetExtensions  = map[string]bool{"xls": true, "xlsx": true, "csv": true, "ods": true}
	presentationExtensions = map[string]bool{"ppt": true, "pptx": true, "odp": true}
)

// Extension возвращает расширение сохранённого файла без точки, в нижнем регистре.
func (f *FileRecord) Extension() string {
	idx := strings.LastIndexByte(f.StoredName, '.')
	if idx < 0 || idx == len(f.StoredName)-1 {
		return ""
	}
	return strings.ToLower(f.StoredName[idx+1:])
}

// IsImage сообщает, является ли файл изображением.
func (f *FileRecord) IsImage() bool {
	return imageExtensions[f.Extension()]
}

// IsDocument сообщает, является ли файл документом.
func (f *FileRecord) IsDocument() bool {
	return documentExtensions[f.Extension()]
}

// IsSpreadsheet сообщает, является ли файл таблицей.
func (f *FileRecord) IsSpreadsheet() bool {
	return spreadsheetExtensions[f.Extension()]
}

// IsPresentation сообщает, является ли файл презентацией.
func (f *FileRecord) IsPresentation() bool {
	return presentationExtensions[f.Extension()]
}

// FormattedSize возвращает размер файла в человекочитаемом виде.
func (f *FileRecord) FormattedSize() string {
	const mib = 1 << 20
	if f.SizeBytes < mib {
		return fmt.Sprintf("%d KB", f.SizeBytes/1024)
	}
	return fmt.Sprintf("%.2f MB", float64(f.SizeBytes)/float64(mib))
}

// ShortDescription возвращает описание, усечённое для списков.
func (f *FileRecord) ShortDescription() string {
	const maxLen = 100
	runes := []rune(f.Description)
	if len(runes) <= maxLen {
		return f.Description
	}
	return string(runes[:maxLen]) + "..."
}

// Классы иконок Bootstrap по расширению файла.
var fileIconMap = map[string]string{
	"pdf":  "bi-file-earmark-pdf-fill",
	"doc":  "bi-file-earmark-word-fill",
	"docx": "bi-file-earmark-word-fill",
	"txt":  "bi-file-earmark-text-fill",
	"rtf":  "bi-file-earmark-text-fill",
	"odt":  "bi-file-earmark-word-fill",
	"xls":  "bi-file-earmark-excel-fill",
	"xlsx": "bi-file-earmark-excel-fill",
	"csv":  "bi-file-earmark-spreadsheet-fill",
	"ods":  "bi-file-earmark-excel-fill",
	"ppt":  "bi-file-earmark-ppt-fill",
	"pptx": "bi-file-earmark-ppt-fill",
	"odp":  "bi-file-earmark-ppt-fill",
	"jpg":  "bi-file-earmark-image-fill",
	"jpeg": "bi-file-earmark-image-fill",
	"png":  "bi-file-earmark-image-fill",
	"gif":  "bi-file-earmark-image-fill",
	"bmp":  "bi-file-earmark-image-fill",
	"webp": "bi-file-earmark-image-fill",
}

// IconClass возвращает класс иконки Bootstrap для файла.
func (f *FileRecord) IconClass() string {
	if cls, ok := fileIconMap[f.Extension()]; ok {
		return cls
	}
	return "bi-file-earmark"
}

// FileStats — агрегированная статистика файлового реестра.
type FileStats struct {
	// TotalFiles — общее количество файлов.
	TotalFiles int
	// TotalBytes — суммарный размер всех файлов.
	TotalBytes int64
	// Images, Documents — количество файлов по категориям.
	Images    int
	Documents int
	// Others — файлы вне категорий выше.
	Others int
}

// FormattedTotalSize возвращает суммарный размер в мегабайтах.
func (s *FileStats) FormattedTotalSize() string {
	return fmt.Sprintf("%.2f MB", float64(s.TotalBytes)/float64(1<<20))
}
