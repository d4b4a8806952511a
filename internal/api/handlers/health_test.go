package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubChecker — фиксированный результат проверки готовности.
type stubChecker struct {
	status  string
	message string
}

func (c *stubChecker) CheckReady() (string, string) {
	return c.status, c.message
}

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	h.HealthLive(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("статус %d, ожидается 200", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ответ не JSON: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, ожидается ok", resp["status"])
	}
	if resp["service"] != "metadatos" {
		t.Errorf("service = %v, ожидается metadatos", resp["service"])
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		pg         ReadinessChecker
		store      ReadinessChecker
		wantCode   int
		wantStatus string
	}{
		{
			name:       "обе зависимости готовы",
			pg:         &stubChecker{status: "ok"},
			store:      &stubChecker{status: "ok"},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "PostgreSQL недоступен",
			pg:         &stubChecker{status: "fail", message: "connection refused"},
			store:      &stubChecker{status: "ok"},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "fail",
		},
		{
			name:       "директория загрузок недоступна",
			pg:         &stubChecker{status: "ok"},
			store:      &stubChecker{status: "fail", message: "нет директории"},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "fail",
		},
		{
			name:       "зависимости не инициализированы",
			pg:         nil,
			store:      nil,
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.pg, tt.store)

			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("статус %d, ожидается %d", rec.Code, tt.wantCode)
			}

			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("ответ не JSON: %v", err)
			}
			if resp["status"] != tt.wantStatus {
				t.Errorf("status = %v, ожидается %v", resp["status"], tt.wantStatus)
			}
		})
	}
}
