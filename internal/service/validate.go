package service

import (
	"path"
	"strings"
)

// Допустимые расширения загружаемых файлов: документы, изображения,
// таблицы, презентации. Архивы и исполняемые файлы исключены политикой.
// Проверка только по расширению, без анализа magic bytes содержимого —
// известный осознанный пробел исходного дизайна.
var allowedExtensions = map[string]bool{
	// Документы
	"pdf": true, "doc": true, "docx": true, "txt": true, "rtf": true, "odt": true,
	// Изображения
	"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true, "webp": true,
	// Таблицы
	"xls": true, "xlsx": true, "csv": true, "ods": true,
	// Презентации
	"ppt": true, "pptx": true, "odp": true,
}

// ValidateContent проверяет имя файла и заявленный размер.
// Отклоняет файлы без расширения, с расширением вне allow-list
// и превышающие maxSize байт.
func ValidateContent(filename string, size int64, maxSize int64) error {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		return Reject("файл без расширения не допускается")
	}
	if !allowedExtensions[ext] {
		return Reject("тип файла .%s не допускается", ext)
	}
	if size > maxSize {
		return Reject("размер файла %d байт превышает максимум %d байт", size, maxSize)
	}
	return nil
}
