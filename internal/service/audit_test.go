package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Gabo-araya/metadatos-app/internal/domain/model"
)

func TestMaskUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"admin", "a***"},
		{"администратор", "а***"},
		{"x", "x***"},
		{"", "-"},
	}

	for _, tt := range tests {
		if got := MaskUsername(tt.in); got != tt.want {
			t.Errorf("MaskUsername(%q) = %q, ожидается %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskIP(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"IPv4 с портом", "192.168.1.10:54321", "192.168.1.0"},
		{"IPv4 без порта", "10.20.30.40", "10.20.30.0"},
		{"localhost", "127.0.0.1:8080", "127.0.0.0"},
		{"IPv6 с портом", "[2001:db8:abcd:12::1]:443", "2001:db8::"},
		{"IPv6 без порта", "2001:db8::1", "2001:db8::"},
		{"пустой адрес", "", "-"},
		{"мусор", "not-an-address", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskIP(tt.in); got != tt.want {
				t.Errorf("MaskIP(%q) = %q, ожидается %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEmit_MasksAndTruncates(t *testing.T) {
	repo := &fakeActivityRepo{}
	audit := NewAuditService(repo, discardLogger())

	longDescription := strings.Repeat("ж", model.ActivityDescriptionMaxLen+50)
	fileID := int64(7)

	audit.Emit(context.Background(), model.ActionUpload, longDescription,
		"admin", "192.168.1.10:54321", "agent", &fileID)

	if len(repo.events) != 1 {
		t.Fatalf("в журнале %d событий, ожидается 1", len(repo.events))
	}
	e := repo.events[0]
	if e.Username != "a***" {
		t.Errorf("актор %q не маскирован", e.Username)
	}
	if e.IPAddress != "192.168.1.0" {
		t.Errorf("адрес %q не маскирован", e.IPAddress)
	}
	if got := len([]rune(e.Description)); got != model.ActivityDescriptionMaxLen {
		t.Errorf("описание %d рун, ожидается усечение до %d", got, model.ActivityDescriptionMaxLen)
	}
	if e.FileID == nil || *e.FileID != 7 {
		t.Error("ссылка на файл потеряна")
	}
}

// TestEmit_BestEffort: сбой журнала не приводит к панике и не
// возвращает ошибку наружу.
func TestEmit_BestEffort(t *testing.T) {
	repo := &fakeActivityRepo{insertErr: errDatabase}
	audit := NewAuditService(repo, discardLogger())

	audit.Emit(context.Background(), model.ActionLogin, "вход администратора",
		"admin", "10.0.0.1:80", "agent", nil)

	if len(repo.events) != 0 {
		t.Errorf("в журнале %d событий после сбоя", len(repo.events))
	}
}
