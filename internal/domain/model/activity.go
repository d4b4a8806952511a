package model

import "time"

// Виды действий журнала активности.
const (
	ActionUpload = "upload"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionLogout = "logout"
)

// Максимальная длина описания события аудита.
const ActivityDescriptionMaxLen = 500

// ActivityLog — событие аудита административных действий.
// Запись создаётся один раз и никогда не изменяется.
// FileID — явная опциональная ссылка на запись файла; связанная запись
// получается отдельным запросом, а не неявной навигацией по связи.
type ActivityLog struct {
	// ID — идентификатор события.
	ID int64
	// Action — вид действия: upload, delete, login, logout.
	Action string
	// Description — краткое описание, не длиннее ActivityDescriptionMaxLen.
	Description string
	// Username — маскированное имя актора.
	Username string
	// IPAddress — маскированный адрес клиента (IPv4 или IPv6).
	IPAddress string
	// UserAgent — User-Agent клиента.
	UserAgent string
	// FileID — ссылка на запись файла, если действие связано с файлом.
	FileID *int64
	// Timestamp — момент события.
	Timestamp time.Time
}
