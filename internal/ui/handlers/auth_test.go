package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Gabo-araya/metadatos-app/internal/config"
	"github.com/Gabo-araya/metadatos-app/internal/service"
	"github.com/Gabo-araya/metadatos-app/internal/ui/auth"
	"github.com/Gabo-araya/metadatos-app/internal/ui/templates"
)

// newTestAuth собирает AuthHandler с фейковым журналом активности.
func newTestAuth(t *testing.T) (*AuthHandler, *auth.SessionManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	renderer, err := templates.NewRenderer(logger)
	if err != nil {
		t.Fatalf("ошибка инициализации шаблонов: %v", err)
	}

	sm, err := auth.NewSessionManager("test-key", time.Hour, false)
	if err != nil {
		t.Fatalf("ошибка создания SessionManager: %v", err)
	}

	cfg := &config.Config{
		AdminUsername: "admin",
		AdminPassword: "adminpass",
	}
	audit := service.NewAuditService(&stubActivityRepo{}, logger)

	return NewAuthHandler(cfg, sm, audit, renderer, logger), sm
}

// authRouter монтирует маршруты аутентификации как в боевом роутере:
// logout доступен и по GET, и по POST.
func authRouter(h *AuthHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/login", h.HandleLoginForm)
	r.Post("/login", h.HandleLogin)
	r.Get("/logout", h.HandleLogout)
	r.Post("/logout", h.HandleLogout)
	return r
}

// TestHandleLogout_BothMethods: выход работает и по GET (прямая ссылка),
// и по POST (форма) — сессия очищается, клиент уходит на главную.
func TestHandleLogout_BothMethods(t *testing.T) {
	h, sm := newTestAuth(t)
	router := authRouter(h)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/logout", nil)
			req.AddCookie(adminCookie(t, sm))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusFound {
				t.Fatalf("статус %d, ожидается 302", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/" {
				t.Errorf("Location = %q, ожидается /", loc)
			}

			var cleared bool
			for _, c := range rec.Result().Cookies() {
				if c.Name == auth.SessionCookieName && c.MaxAge == -1 {
					cleared = true
				}
			}
			if !cleared {
				t.Error("session cookie не очищен при выходе")
			}
		})
	}
}
