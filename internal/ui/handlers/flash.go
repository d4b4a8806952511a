// Пакет handlers — HTTP-обработчики UI.
// flash.go — одноразовые flash-сообщения через короткоживущий cookie.
package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Имя cookie для flash-сообщения.
const flashCookieName = "metadatos_flash"

// flashMaxAge — максимальный возраст flash cookie (1 минута).
const flashMaxAge = 60

// Типы flash-сообщений (классы Bootstrap alert).
const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashWarning = "warning"
)

// setFlash сохраняет одноразовое сообщение в cookie.
// Значение кодируется base64: «kind|текст».
func setFlash(w http.ResponseWriter, kind, message string) {
	value := base64.URLEncoding.EncodeToString([]byte(kind + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash извлекает flash-сообщение из запроса и сразу очищает cookie.
// Возвращает пустые строки, если сообщения нет или оно повреждено.
func popFlash(w http.ResponseWriter, r *http.Request) (kind, message string) {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return "", ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return "", ""
	}

	kind, message, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return "", ""
	}
	return kind, message
}
