package service

import "testing"

const testMaxSize = 16 << 20

func TestValidateContent_AllowedTypes(t *testing.T) {
	allowed := []string{
		"report.pdf", "letter.docx", "notes.TXT", "scan.jpeg",
		"photo.png", "data.csv", "table.xlsx", "slides.pptx", "doc.odt",
	}

	for _, name := range allowed {
		if err := ValidateContent(name, 1024, testMaxSize); err != nil {
			t.Errorf("ValidateContent(%q) = %v, ожидается nil", name, err)
		}
	}
}

func TestValidateContent_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
	}{
		{"без расширения", "README", 10},
		{"исполняемый файл", "setup.exe", 10},
		{"архив", "backup.zip", 10},
		{"rar-архив", "backup.rar", 10},
		{"скрипт", "run.sh", 10},
		{"медиа вне политики", "song.mp3", 10},
		{"превышение размера", "big.pdf", testMaxSize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.filename, tt.size, testMaxSize)
			if err == nil {
				t.Errorf("ValidateContent(%q, %d) = nil, ожидается отказ", tt.filename, tt.size)
			}
			if err != nil && !IsReject(err) {
				t.Errorf("ожидается RejectError, получено %T", err)
			}
		})
	}
}

func TestValidateContent_SizeBoundary(t *testing.T) {
	// Ровно на границе — допускается
	if err := ValidateContent("exact.pdf", testMaxSize, testMaxSize); err != nil {
		t.Errorf("размер ровно на границе: %v, ожидается nil", err)
	}
}
