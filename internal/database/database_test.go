package database

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Gabo-araya/metadatos-app/internal/config"
)

// TestConnect_Unreachable: недоступный PostgreSQL — Connect повторяет ping
// и прерывается по отмене контекста, не зависая на весь цикл попыток.
func TestConnect_Unreachable(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "127.0.0.1",
		DBPort:     1, // зарезервированный порт, подключение будет отклонено
		DBName:     "metadatos",
		DBUser:     "metadatos",
		DBPassword: "metadatos",
		DBSSLMode:  "disable",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	pool, err := Connect(ctx, cfg, logger)
	if err == nil {
		pool.Close()
		t.Fatal("ожидалась ошибка подключения к недоступной базе")
	}
	// Полный цикл попыток занял бы connectAttempts*connectRetryDelay;
	// отмена контекста должна сработать существенно раньше.
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Connect не прервался по контексту: %v", elapsed)
	}
}
