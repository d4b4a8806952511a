// recover.go — перехват паник обработчиков.
// Каждой необработанной панике назначается короткий корреляционный
// идентификатор: детали уходят в лог, клиент видит только общий текст
// и идентификатор — без stack trace, путей и имён типов.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
)

// Recoverer возвращает middleware перехвата паник.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel сравнивается по значению
						panic(rec)
					}

					errorID := uuid.New().String()[:8]
					logger.Error("Паника при обработке запроса",
						slog.String("error_id", errorID),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("panic", fmt.Sprintf("%v", rec)),
						slog.String("stack", string(debug.Stack())),
					)

					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w,
						"<html><body><h1>Внутренняя ошибка сервера</h1>"+
							"<p>Ошибка зарегистрирована. Код: %s</p></body></html>",
						errorID,
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
