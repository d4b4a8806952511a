package service

import (
	"context"
	"log/slog"
	"net"

	"github.com/Gabo-araya/metadatos-app/internal/domain/model"
	"github.com/Gabo-araya/metadatos-app/internal/repository"
)

// AuditService — запись событий аудита в журнал активности.
// Запись best-effort: ошибка журналирования логируется
// и никогда не прерывает основную операцию.
type AuditService struct {
	repo   repository.ActivityLogRepository
	logger *slog.Logger
}

// NewAuditService создаёт сервис аудита.
func NewAuditService(repo repository.ActivityLogRepository, logger *slog.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger.With(slog.String("component", "audit_service")),
	}
}

// Emit записывает событие аудита. Имя актора и адрес клиента маскируются,
// описание усекается до допустимой длины. Ошибки не возвращаются.
func (a *AuditService) Emit(ctx context.Context, action, description, username, remoteAddr, userAgent string, fileID *int64) {
	e := &model.ActivityLog{
		Action:      action,
		Description: truncateRunes(description, model.ActivityDescriptionMaxLen),
		Username:    MaskUsername(username),
		IPAddress:   MaskIP(remoteAddr),
		UserAgent:   userAgent,
		FileID:      fileID,
	}

	if err := a.repo.Insert(ctx, e); err != nil {
		a.logger.Warn("Не удалось записать событие аудита",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}

// MaskUsername маскирует имя актора: первая руна + «***».
func MaskUsername(u string) string {
	if u == "" {
		return "-"
	}
	r := []rune(u)
	return string(r[0]) + "***"
}

// MaskIP маскирует адрес клиента. Порт отбрасывается; у IPv4 обнуляется
// последний октет, у IPv6 сохраняется префикс /32. Нераспознанный адрес
// заменяется на «-».
func MaskIP(remoteAddr string) string {
	if remoteAddr == "" {
		return "-"
	}

	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return "-"
	}

	if v4 := ip.To4(); v4 != nil {
		return net.IPv4(v4[0], v4[1], v4[2], 0).String()
	}

	// IPv6: первые две группы, остальное обнуляется
	masked := make(net.IP, len(ip))
	copy(masked, ip)
	for i := 4; i < len(masked); i++ {
		masked[i] = 0
	}
	return masked.String()
}

// truncateRunes усекает строку до maxLen рун.
func truncateRunes(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}
