// Пакет middleware — HTTP middleware для UI.
// auth.go — проверка сессии администратора (cookie-based).
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Gabo-araya/metadatos-app/internal/ui/auth"
)

// contextKey — тип для ключей контекста UI (избегаем коллизий с API middleware).
type contextKey string

// ContextKeySession — данные сессии администратора в контексте запроса.
const ContextKeySession contextKey = "ui_session"

// SessionGuard — middleware для проверки аутентификации администратора.
// Извлекает сессию из зашифрованного cookie, redirect на /login
// при отсутствии, повреждении или истечении сессии.
type SessionGuard struct {
	sessionManager *auth.SessionManager
	logger         *slog.Logger
}

// NewSessionGuard создаёт новый SessionGuard middleware.
func NewSessionGuard(sessionManager *auth.SessionManager, logger *slog.Logger) *SessionGuard {
	return &SessionGuard{
		sessionManager: sessionManager,
		logger:         logger.With(slog.String("component", "session_guard")),
	}
}

// Middleware возвращает HTTP middleware для проверки сессии.
// Применяется к маршрутам /admin*.
func (sg *SessionGuard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sg.sessionManager.GetSessionFromRequest(r)
			if err != nil {
				sg.logger.Debug("Ошибка чтения сессии",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				// Повреждённый cookie — очищаем и redirect на login
				sg.sessionManager.ClearSessionCookie(w)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			if session == nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			if session.IsExpired(sg.sessionManager.TTL()) {
				sg.logger.Info("Сессия истекла, redirect на login",
					slog.String("username", session.Username),
				)
				sg.sessionManager.ClearSessionCookie(w)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext извлекает SessionData из контекста запроса.
// Возвращает nil если запрос не прошёл через SessionGuard.
func SessionFromContext(ctx context.Context) *auth.SessionData {
	session, ok := ctx.Value(ContextKeySession).(*auth.SessionData)
	if !ok {
		return nil
	}
	return session
}
