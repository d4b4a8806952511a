package service

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// Максимальная длина сгенерированного имени хранения.
	maxStoredNameLen = 100
	// Резерв под суффикс «_<timestamp>_NNNN» при усечении основы.
	nameSuffixReserve = 16
	// Максимум попыток со счётчиком до случайного fallback.
	maxNameAttempts = 9999
)

// MakeUniqueName выводит свободное имя хранения из уже прошедшего
// санитизацию имени файла. Первый кандидат — «stem_<unixts><ext>»;
// при коллизии перебирается счётчик «stem_<unixts>_NNNN<ext>»
// (не более maxNameAttempts), затем — случайный hex-токен вместо
// timestamp. Fallback достижим только при патологическом шторме
// одновременных загрузок и не зацикливается.
//
// Окно гонки между проверкой exists и записью blob принято осознанно:
// схема timestamp+счётчик делает коллизию практически невозможной,
// атомарной критической секции между процессами здесь нет.
func MakeUniqueName(sanitized string, exists func(string) bool) string {
	ext := path.Ext(sanitized)
	stem := strings.TrimSuffix(sanitized, ext)

	// Усекаем основу так, чтобы имя с суффиксом влезало в бюджет.
	stem = truncateStem(stem, maxStoredNameLen-len(ext)-nameSuffixReserve)

	ts := time.Now().UTC().Unix()

	candidate := fmt.Sprintf("%s_%d%s", stem, ts, ext)
	if !exists(candidate) {
		return candidate
	}

	for i := 1; i <= maxNameAttempts; i++ {
		candidate = fmt.Sprintf("%s_%d_%04d%s", stem, ts, i, ext)
		if !exists(candidate) {
			return candidate
		}
	}

	// Случайный fallback: hex-токен вместо timestamp, без повторных проверок.
	// Токен длиннее зарезервированного суффикса, основа усекается повторно.
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	fbStem := truncateStem(stem, maxStoredNameLen-len(ext)-len(token)-1)
	return fmt.Sprintf("%s_%s%s", fbStem, token, ext)
}

// truncateStem усекает основу имени до budget байт по границам рун.
func truncateStem(stem string, budget int) string {
	if budget < 0 {
		budget = 0
	}
	for len(stem) > budget {
		_, size := utf8.DecodeLastRuneInString(stem)
		stem = stem[:len(stem)-size]
	}
	return stem
}
