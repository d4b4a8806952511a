package service

import (
	"html"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Политика очистки текстовых полей: весь HTML вырезается.
var htmlPolicy = bluemonday.StrictPolicy()

// Зарезервированные имена устройств Windows (без учёта регистра,
// с расширением или без).
var reservedDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SanitizeFilename проверяет и нормализует имя файла, присланное клиентом.
// Отклоняет traversal-сегменты, запрещённые символы, управляющие символы,
// NUL и зарезервированные имена устройств Windows. Прошедшее проверку имя
// очищается: отбрасываются компоненты пути, сохраняются базовое имя и одно
// расширение, непереносимые символы вырезаются (пробелы становятся «_»).
// Уже чистое имя возвращается без изменений. Чистая функция.
func SanitizeFilename(raw string) (string, error) {
	if raw == "" {
		return "", Reject("имя файла не задано")
	}
	if strings.ContainsRune(raw, 0) {
		return "", Reject("имя файла содержит NUL-байт")
	}
	for _, r := range raw {
		if r < 0x20 || r == 0x7f {
			return "", Reject("имя файла содержит управляющие символы")
		}
	}
	if strings.Contains(raw, "..") {
		return "", Reject("имя файла содержит переход на уровень выше")
	}
	if strings.ContainsAny(raw, `<>:"|?*`) {
		return "", Reject("имя файла содержит запрещённые символы")
	}

	// Отбрасываем компоненты пути (разделители обеих ОС)
	base := path.Base(strings.ReplaceAll(raw, `\`, "/"))
	if base == "" || base == "/" || base == "." {
		return "", Reject("имя файла пустое после удаления пути")
	}

	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if reservedDeviceNames[strings.ToUpper(stem)] {
		return "", Reject("имя файла совпадает с зарезервированным именем устройства")
	}

	stem = sanitizeNamePart(stem)
	ext = sanitizeExt(ext)
	if stem == "" {
		return "", Reject("имя файла пустое после очистки")
	}

	return stem + ext, nil
}

// sanitizeNamePart вырезает непереносимые символы из части имени файла.
// Остаются буквы (латиница и кириллица), цифры, дефис и подчёркивание;
// пробелы заменяются на подчёркивание.
func sanitizeNamePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' ||
			(r >= 0x0400 && r <= 0x04FF): // Кириллица
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sanitizeExt оставляет в расширении только точку и ASCII-буквоцифры.
func sanitizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	var b strings.Builder
	b.WriteRune('.')
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 1 {
		return ""
	}
	return b.String()
}

// SanitizeText вырезает HTML-разметку из пользовательского текста,
// обрезает пробелы по краям и усекает до maxLen рун.
// Уже чистый текст возвращается без изменений (кроме trimming).
func SanitizeText(s string, maxLen int) string {
	// StrictPolicy экранирует сущности; возвращаем их в исходный вид,
	// поле хранится как plain text и экранируется при рендеринге.
	clean := html.UnescapeString(htmlPolicy.Sanitize(s))
	clean = strings.TrimSpace(clean)

	runes := []rune(clean)
	if len(runes) > maxLen {
		clean = string(runes[:maxLen])
	}
	return clean
}
