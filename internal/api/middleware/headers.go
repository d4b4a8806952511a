// headers.go — security-заголовки для всех ответов.
package middleware

import "net/http"

// Базовая Content-Security-Policy: своя статика + Bootstrap с CDN.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' https://cdn.jsdelivr.net; " +
	"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; " +
	"img-src 'self' data:; " +
	"font-src 'self' https://cdn.jsdelivr.net;"

// SecurityHeaders возвращает middleware, выставляющий security-заголовки.
// HSTS добавляется только когда приложение работает за HTTPS
// (secureCookies=true).
func SecurityHeaders(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Content-Security-Policy", contentSecurityPolicy)
			if secureCookies {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
