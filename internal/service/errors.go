// Пакет service — бизнес-логика Metadatos: конвейер загрузки
// (санитизация имени, генерация уникального имени, валидация содержимого,
// оркестрация), чтение реестра и аудит.
package service

import (
	"errors"
	"fmt"
)

// RejectError — отказ валидации. Сообщение предназначено пользователю
// и показывается как flash; операция прерывается до любых side effects.
type RejectError struct {
	Reason string
}

func (e *RejectError) Error() string {
	return e.Reason
}

// Reject создаёт RejectError с форматированным сообщением.
func Reject(format string, args ...any) *RejectError {
	return &RejectError{Reason: fmt.Sprintf(format, args...)}
}

// IsReject сообщает, является ли ошибка отказом валидации.
func IsReject(err error) bool {
	var re *RejectError
	return errors.As(err, &re)
}
