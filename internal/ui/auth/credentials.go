// credentials.go — проверка учётных данных единственного администратора.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// VerifyCredentials сверяет имя и пароль с настроенными учётными данными.
// MD_ADMIN_PASSWORD может быть bcrypt-хэшем ($2a$, $2b$, $2y$) или
// plaintext; в обоих случаях сравнение не зависит от входных данных
// по времени.
func VerifyCredentials(username, password, wantUsername, wantPassword string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(wantUsername)) == 1

	var passOK bool
	if isBcryptHash(wantPassword) {
		passOK = bcrypt.CompareHashAndPassword([]byte(wantPassword), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(wantPassword)) == 1
	}

	return userOK && passOK
}

// isBcryptHash распознаёт bcrypt-хэш по префиксу версии.
func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") ||
		strings.HasPrefix(s, "$2b$") ||
		strings.HasPrefix(s, "$2y$")
}
