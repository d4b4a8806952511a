package service

import (
	"regexp"
	"strings"
	"testing"
)

// neverExists — хранилище без коллизий.
func neverExists(string) bool { return false }

func TestMakeUniqueName_FirstCandidate(t *testing.T) {
	name := MakeUniqueName("report.pdf", neverExists)

	matched, err := regexp.MatchString(`^report_\d+\.pdf$`, name)
	if err != nil {
		t.Fatalf("ошибка regexp: %v", err)
	}
	if !matched {
		t.Errorf("имя %q не соответствует формату stem_<timestamp>.pdf", name)
	}
}

func TestMakeUniqueName_CounterSuffix(t *testing.T) {
	// Первые три кандидата заняты
	calls := 0
	exists := func(string) bool {
		calls++
		return calls <= 3
	}

	name := MakeUniqueName("report.pdf", exists)

	matched, err := regexp.MatchString(`^report_\d+_0003\.pdf$`, name)
	if err != nil {
		t.Fatalf("ошибка regexp: %v", err)
	}
	if !matched {
		t.Errorf("имя %q не соответствует формату stem_<timestamp>_0003.pdf", name)
	}
}

// TestMakeUniqueName_RandomFallback: предикат существования отвечает
// «занято» на все 1+9999 попыток — генератор обязан вернуть случайный
// fallback, а не зациклиться.
func TestMakeUniqueName_RandomFallback(t *testing.T) {
	calls := 0
	allTaken := func(string) bool {
		calls++
		return true
	}

	name := MakeUniqueName("report.pdf", allTaken)

	if calls != 1+maxNameAttempts {
		t.Errorf("предикат вызван %d раз, ожидается %d", calls, 1+maxNameAttempts)
	}

	// Fallback: stem_<32 hex>.pdf
	matched, err := regexp.MatchString(`^report_[0-9a-f]{32}\.pdf$`, name)
	if err != nil {
		t.Fatalf("ошибка regexp: %v", err)
	}
	if !matched {
		t.Errorf("имя %q не соответствует формату случайного fallback", name)
	}

	// Два fallback подряд не совпадают
	other := MakeUniqueName("report.pdf", allTaken)
	if other == name {
		t.Errorf("два случайных fallback совпали: %q", name)
	}
}

func TestMakeUniqueName_TruncatesLongStem(t *testing.T) {
	long := strings.Repeat("a", 300) + ".pdf"

	name := MakeUniqueName(long, neverExists)

	if len(name) > maxStoredNameLen {
		t.Errorf("длина имени %d превышает бюджет %d", len(name), maxStoredNameLen)
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("расширение потеряно: %q", name)
	}
}

// TestMakeUniqueName_TruncatesByRunes: усечение кириллической основы
// не режет руну посередине.
func TestMakeUniqueName_TruncatesByRunes(t *testing.T) {
	long := strings.Repeat("ж", 200) + ".pdf"

	name := MakeUniqueName(long, neverExists)

	if len(name) > maxStoredNameLen {
		t.Errorf("длина имени %d превышает бюджет %d", len(name), maxStoredNameLen)
	}
	if strings.ContainsRune(name, '�') || !strings.HasPrefix(name, "ж") {
		t.Errorf("имя %q повреждено усечением", name)
	}
	if !strings.Contains(name, "жж") {
		t.Errorf("основа %q усечена целиком", name)
	}
}

// TestMakeUniqueName_PassesSanitizer: сгенерированное имя проходит
// собственную проверку безопасности.
func TestMakeUniqueName_PassesSanitizer(t *testing.T) {
	inputs := []string{"report.pdf", "отчёт.docx", "noext"}

	for _, in := range inputs {
		name := MakeUniqueName(in, neverExists)
		got, err := SanitizeFilename(name)
		if err != nil {
			t.Errorf("имя %q не прошло SanitizeFilename: %v", name, err)
			continue
		}
		if got != name {
			t.Errorf("SanitizeFilename изменил сгенерированное имя: %q → %q", name, got)
		}
	}
}

// TestMakeUniqueName_FallbackWithinBudget: случайный fallback с длинной
// основой тоже укладывается в бюджет — hex-токен длиннее резерва,
// зарезервированного при первом усечении.
func TestMakeUniqueName_FallbackWithinBudget(t *testing.T) {
	allTaken := func(string) bool { return true }
	long := strings.Repeat("a", 300) + ".pdf"

	name := MakeUniqueName(long, allTaken)

	if len(name) > maxStoredNameLen {
		t.Errorf("длина fallback-имени %d превышает бюджет %d", len(name), maxStoredNameLen)
	}
	matched, err := regexp.MatchString(`^a+_[0-9a-f]{32}\.pdf$`, name)
	if err != nil {
		t.Fatalf("ошибка regexp: %v", err)
	}
	if !matched {
		t.Errorf("имя %q не соответствует формату случайного fallback", name)
	}
}

func TestMakeUniqueName_NoExtension(t *testing.T) {
	name := MakeUniqueName("noext", neverExists)

	matched, err := regexp.MatchString(`^noext_\d+$`, name)
	if err != nil {
		t.Fatalf("ошибка regexp: %v", err)
	}
	if !matched {
		t.Errorf("имя %q не соответствует формату noext_<timestamp>", name)
	}
}
