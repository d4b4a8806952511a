package config

import (
	"log/slog"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения для теста.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// productionEnvs возвращает минимальный набор переменных для production.
func productionEnvs() map[string]string {
	return map[string]string{
		"MD_MODE":           "production",
		"MD_SECRET_KEY":     "super-secret-key",
		"MD_DB_HOST":        "db.example.com",
		"MD_DB_NAME":        "metadatos",
		"MD_DB_USER":        "metadatos",
		"MD_DB_PASSWORD":    "secret",
		"MD_ADMIN_USERNAME": "admin",
		"MD_ADMIN_PASSWORD": "s3cr3t",
	}
}

func TestLoad_DevelopmentDefaults(t *testing.T) {
	setEnvs(t, map[string]string{"MD_MODE": "development"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	// Проверяем значения по умолчанию
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, ожидается 8000", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.DBHost != "localhost" {
		t.Errorf("DBHost = %q, ожидается localhost", cfg.DBHost)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("UploadDir = %q, ожидается uploads", cfg.UploadDir)
	}
	if cfg.MaxContentLength != DefaultMaxContentLength {
		t.Errorf("MaxContentLength = %d, ожидается %d", cfg.MaxContentLength, int64(DefaultMaxContentLength))
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("AdminUsername = %q, ожидается admin", cfg.AdminUsername)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Errorf("SessionTTL = %v, ожидается 8h", cfg.SessionTTL)
	}
	if cfg.LoginFailDelay != time.Second {
		t.Errorf("LoginFailDelay = %v, ожидается 1s", cfg.LoginFailDelay)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize = %d, ожидается 20", cfg.PageSize)
	}
	// В development секретный ключ генерируется автоматически
	if cfg.SecretKey == "" {
		t.Error("SecretKey пустой, ожидается автогенерация в development")
	}
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{"без MD_SECRET_KEY", "MD_SECRET_KEY"},
		{"без MD_DB_HOST", "MD_DB_HOST"},
		{"без MD_DB_PASSWORD", "MD_DB_PASSWORD"},
		{"без MD_ADMIN_USERNAME", "MD_ADMIN_USERNAME"},
		{"без MD_ADMIN_PASSWORD", "MD_ADMIN_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envs := productionEnvs()
			envs[tt.missing] = ""
			setEnvs(t, envs)

			if _, err := Load(); err == nil {
				t.Errorf("Load() без %s должен вернуть ошибку", tt.missing)
			}
		})
	}
}

func TestLoad_ProductionComplete(t *testing.T) {
	setEnvs(t, productionEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, ожидается true")
	}
	if cfg.SecretKey != "super-secret-key" {
		t.Errorf("SecretKey = %q, ожидается super-secret-key", cfg.SecretKey)
	}
}

func TestLoad_MaxContentLengthCeiling(t *testing.T) {
	setEnvs(t, map[string]string{
		"MD_MODE": "development",
		// 100 MiB — выше жёсткого потолка
		"MD_MAX_CONTENT_LENGTH": "104857600",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if cfg.MaxContentLength != MaxContentLengthCeiling {
		t.Errorf("MaxContentLength = %d, ожидается потолок %d",
			cfg.MaxContentLength, int64(MaxContentLengthCeiling))
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"некорректный режим", "MD_MODE", "staging"},
		{"некорректный порт", "MD_PORT", "abc"},
		{"порт вне диапазона", "MD_PORT", "70000"},
		{"некорректный уровень логов", "MD_LOG_LEVEL", "verbose"},
		{"некорректный формат логов", "MD_LOG_FORMAT", "xml"},
		{"некорректный SSL mode", "MD_DB_SSL_MODE", "prefer"},
		{"отрицательный размер", "MD_MAX_CONTENT_LENGTH", "-1"},
		{"некорректный TTL", "MD_SESSION_TTL", "8 hours"},
		{"размер страницы вне диапазона", "MD_PAGE_SIZE", "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnvs(t, map[string]string{"MD_MODE": "development", tt.key: tt.val})

			if _, err := Load(); err == nil {
				t.Errorf("Load() с %s=%q должен вернуть ошибку", tt.key, tt.val)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "db.local", DBPort: 5433, DBName: "md",
		DBUser: "u", DBPassword: "p", DBSSLMode: "require",
	}

	want := "postgres://u:p@db.local:5433/md?sslmode=require"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN() = %q, ожидается %q", got, want)
	}
}
