// auth.go — вход и выход единственного администратора.
// Учётные данные берутся из конфигурации, сессия хранится
// в зашифрованном cookie. После неудачной попытки входа выдерживается
// искусственная пауза против перебора паролей.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Gabo-araya/metadatos-app/internal/config"
	"github.com/Gabo-araya/metadatos-app/internal/domain/model"
	"github.com/Gabo-araya/metadatos-app/internal/service"
	"github.com/Gabo-araya/metadatos-app/internal/ui/auth"
	uimiddleware "github.com/Gabo-araya/metadatos-app/internal/ui/middleware"
	"github.com/Gabo-araya/metadatos-app/internal/ui/templates"
)

// AuthHandler — обработчики аутентификации администратора.
type AuthHandler struct {
	cfg            *config.Config
	sessionManager *auth.SessionManager
	audit          *service.AuditService
	renderer       *templates.Renderer
	logger         *slog.Logger
}

// NewAuthHandler создаёт новый AuthHandler.
func NewAuthHandler(
	cfg *config.Config,
	sessionManager *auth.SessionManager,
	audit *service.AuditService,
	renderer *templates.Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		cfg:            cfg,
		sessionManager: sessionManager,
		audit:          audit,
		renderer:       renderer,
		logger:         logger.With(slog.String("component", "ui.auth")),
	}
}

// HandleLoginForm обрабатывает GET /login — форма входа.
// Уже вошедший администратор отправляется сразу в панель.
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	if session, err := h.sessionManager.GetSessionFromRequest(r); err == nil && session != nil {
		if !session.IsExpired(h.sessionManager.TTL()) {
			http.Redirect(w, r, "/admin", http.StatusFound)
			return
		}
	}

	flashKind, flash := popFlash(w, r)
	h.renderer.Render(w, templates.PageLogin, templates.BaseData{
		Title:     "Вход",
		Version:   config.Version,
		Flash:     flash,
		FlashKind: flashKind,
	})
}

// HandleLogin обрабатывает POST /login — проверка учётных данных.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, flashDanger, "Ошибка разбора формы")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if !auth.VerifyCredentials(username, password, h.cfg.AdminUsername, h.cfg.AdminPassword) {
		h.logger.Warn("Неудачная попытка входа",
			slog.String("username", service.MaskUsername(username)),
			slog.String("remote_addr", service.MaskIP(r.RemoteAddr)),
		)

		// Пауза против перебора паролей
		time.Sleep(h.cfg.LoginFailDelay)

		setFlash(w, flashDanger, "Неверное имя пользователя или пароль")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	session := &auth.SessionData{
		Username:   username,
		LoggedInAt: time.Now().Unix(),
	}
	if err := h.sessionManager.SetSessionCookie(w, session); err != nil {
		h.logger.Error("Ошибка создания сессии",
			slog.String("error", err.Error()),
		)
		setFlash(w, flashDanger, "Не удалось создать сессию")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	h.audit.Emit(r.Context(), model.ActionLogin, "вход администратора",
		username, r.RemoteAddr, r.UserAgent(), nil)

	h.logger.Info("Администратор вошёл в систему",
		slog.String("username", service.MaskUsername(username)),
	)

	http.Redirect(w, r, "/admin", http.StatusFound)
}

// HandleLogout обрабатывает POST /logout — завершение сессии.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	username := ""
	if session := uimiddleware.SessionFromContext(r.Context()); session != nil {
		username = session.Username
	} else if session, err := h.sessionManager.GetSessionFromRequest(r); err == nil && session != nil {
		username = session.Username
	}

	h.sessionManager.ClearSessionCookie(w)

	if username != "" {
		h.audit.Emit(r.Context(), model.ActionLogout, "выход администратора",
			username, r.RemoteAddr, r.UserAgent(), nil)
	}

	setFlash(w, flashSuccess, "Вы вышли из системы")
	http.Redirect(w, r, "/", http.StatusFound)
}
