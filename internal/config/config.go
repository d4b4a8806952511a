// Пакет config — загрузка и валидация конфигурации Metadatos
// из переменных окружения (префикс MD_).
// В режиме development недостающие обязательные параметры заменяются
// значениями по умолчанию с предупреждением в лог; в production
// отсутствие обязательного параметра — фатальная ошибка старта.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Режимы работы приложения.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Жёсткий потолок размера загружаемого файла (50 MiB).
// MD_MAX_CONTENT_LENGTH не может его превысить.
const MaxContentLengthCeiling = 50 << 20

// Значение MD_MAX_CONTENT_LENGTH по умолчанию (16 MiB).
const DefaultMaxContentLength = 16 << 20

// Config содержит все параметры конфигурации Metadatos.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Режим работы: development, production
	Mode string
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Хранилище файлов ---

	// Директория для хранения загруженных файлов
	UploadDir string
	// Максимальный размер загружаемого файла в байтах
	MaxContentLength int64

	// --- Администратор и сессии ---

	// Секретный ключ подписи/шифрования сессий
	SecretKey string
	// Имя единственного администратора
	AdminUsername string
	// Пароль администратора: bcrypt-хэш ($2a$..., $2b$...) или plaintext
	AdminPassword string
	// Время жизни сессии администратора
	SessionTTL time.Duration
	// Искусственная задержка после неудачной попытки входа
	LoginFailDelay time.Duration
	// Выставлять ли Secure flag на session cookie (true за HTTPS)
	SecureCookie bool

	// --- UI ---

	// Размер страницы списка файлов
	PageSize int

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// IsProduction возвращает true в режиме production.
func (c *Config) IsProduction() bool {
	return c.Mode == ModeProduction
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
// В development предварительно читается файл .env (если есть).
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Режим работы ---

	// MD_MODE — режим работы (по умолчанию development)
	cfg.Mode = getEnvDefault("MD_MODE", ModeDevelopment)
	if cfg.Mode != ModeDevelopment && cfg.Mode != ModeProduction {
		return nil, fmt.Errorf("MD_MODE: недопустимое значение %q, допустимые: development, production", cfg.Mode)
	}

	// В development подхватываем .env из текущей директории.
	// Уже установленные переменные окружения имеют приоритет.
	if cfg.Mode == ModeDevelopment {
		_ = godotenv.Load()
	}

	// --- Сервер ---

	// MD_PORT — порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("MD_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("MD_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("MD_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// MD_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("MD_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("MD_LOG_LEVEL: %w", err)
	}

	// MD_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("MD_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("MD_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// MD_DB_HOST — обязательный в production, localhost в development
	cfg.DBHost, err = getEnvRequiredOrDev(cfg, "MD_DB_HOST", "localhost")
	if err != nil {
		return nil, err
	}

	// MD_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("MD_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("MD_DB_PORT: %w", err)
	}

	// MD_DB_NAME — обязательный в production
	cfg.DBName, err = getEnvRequiredOrDev(cfg, "MD_DB_NAME", "metadatos")
	if err != nil {
		return nil, err
	}

	// MD_DB_USER — обязательный в production
	cfg.DBUser, err = getEnvRequiredOrDev(cfg, "MD_DB_USER", "metadatos")
	if err != nil {
		return nil, err
	}

	// MD_DB_PASSWORD — обязательный в production
	cfg.DBPassword, err = getEnvRequiredOrDev(cfg, "MD_DB_PASSWORD", "metadatos")
	if err != nil {
		return nil, err
	}

	// MD_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("MD_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("MD_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Хранилище файлов ---

	// MD_UPLOAD_DIR — директория загрузок (по умолчанию uploads)
	cfg.UploadDir = getEnvDefault("MD_UPLOAD_DIR", "uploads")

	// MD_MAX_CONTENT_LENGTH — максимальный размер файла в байтах
	// (по умолчанию 16 MiB, жёсткий потолок 50 MiB)
	maxLen, err := getEnvInt64("MD_MAX_CONTENT_LENGTH", DefaultMaxContentLength)
	if err != nil {
		return nil, fmt.Errorf("MD_MAX_CONTENT_LENGTH: %w", err)
	}
	if maxLen < 1 {
		return nil, fmt.Errorf("MD_MAX_CONTENT_LENGTH: значение %d должно быть положительным", maxLen)
	}
	if maxLen > MaxContentLengthCeiling {
		maxLen = MaxContentLengthCeiling
	}
	cfg.MaxContentLength = maxLen

	// --- Администратор и сессии ---

	// MD_SECRET_KEY — обязательный в production; в development
	// генерируется случайный ключ (сессии не переживают рестарт)
	cfg.SecretKey = os.Getenv("MD_SECRET_KEY")
	if cfg.SecretKey == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("обязательная переменная окружения MD_SECRET_KEY не задана")
		}
		cfg.SecretKey, err = randomSecret()
		if err != nil {
			return nil, fmt.Errorf("MD_SECRET_KEY: ошибка генерации временного ключа: %w", err)
		}
	}

	// MD_ADMIN_USERNAME — обязательный в production
	cfg.AdminUsername, err = getEnvRequiredOrDev(cfg, "MD_ADMIN_USERNAME", "admin")
	if err != nil {
		return nil, err
	}

	// MD_ADMIN_PASSWORD — обязательный в production
	cfg.AdminPassword, err = getEnvRequiredOrDev(cfg, "MD_ADMIN_PASSWORD", "adminpass")
	if err != nil {
		return nil, err
	}

	// MD_SESSION_TTL — время жизни сессии (по умолчанию 8h)
	cfg.SessionTTL, err = getEnvDuration("MD_SESSION_TTL", 8*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("MD_SESSION_TTL: %w", err)
	}

	// MD_LOGIN_FAIL_DELAY — задержка после неудачного входа (по умолчанию 1s)
	cfg.LoginFailDelay, err = getEnvDuration("MD_LOGIN_FAIL_DELAY", time.Second)
	if err != nil {
		return nil, fmt.Errorf("MD_LOGIN_FAIL_DELAY: %w", err)
	}

	// MD_SECURE_COOKIE — Secure flag для session cookie (по умолчанию false)
	cfg.SecureCookie, err = getEnvBool("MD_SECURE_COOKIE", false)
	if err != nil {
		return nil, fmt.Errorf("MD_SECURE_COOKIE: %w", err)
	}

	// --- UI ---

	// MD_PAGE_SIZE — размер страницы списка (по умолчанию 20)
	cfg.PageSize, err = getEnvInt("MD_PAGE_SIZE", 20)
	if err != nil {
		return nil, fmt.Errorf("MD_PAGE_SIZE: %w", err)
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return nil, fmt.Errorf("MD_PAGE_SIZE: значение %d вне допустимого диапазона 1-100", cfg.PageSize)
	}

	// --- Graceful shutdown ---

	// MD_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("MD_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MD_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger создаёт slog.Logger согласно конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WarnDevDefaults пишет предупреждения о параметрах, работающих
// на значениях по умолчанию в development-режиме.
func (c *Config) WarnDevDefaults(logger *slog.Logger) {
	if c.IsProduction() {
		return
	}
	if os.Getenv("MD_SECRET_KEY") == "" {
		logger.Warn("MD_SECRET_KEY не задан, сгенерирован временный ключ — сессии не переживут рестарт")
	}
	if os.Getenv("MD_ADMIN_PASSWORD") == "" {
		logger.Warn("MD_ADMIN_PASSWORD не задан, используется пароль по умолчанию — только для разработки")
	}
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или дефолт.
func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvRequired возвращает значение обязательной переменной окружения.
func getEnvRequired(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("обязательная переменная окружения %s не задана", key)
	}
	return v, nil
}

// getEnvRequiredOrDev — обязательная переменная в production,
// значение по умолчанию в development.
func getEnvRequiredOrDev(cfg *Config, key, devDefault string) (string, error) {
	if cfg.IsProduction() {
		return getEnvRequired(key)
	}
	return getEnvDefault(key, devDefault), nil
}

// getEnvInt парсит целочисленную переменную окружения.
func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число %q", v)
	}
	return n, nil
}

// getEnvInt64 парсит 64-битную целочисленную переменную окружения.
func getEnvInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число %q", v)
	}
	return n, nil
}

// getEnvBool парсит булеву переменную окружения (true/false, 1/0).
func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение %q", v)
	}
	return b, nil
}

// getEnvDuration парсит переменную окружения в time.Duration.
func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность %q", v)
	}
	return d, nil
}

// parseLogLevel преобразует строку в slog.Level.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("недопустимый уровень логирования %q, допустимые: debug, info, warn, error", s)
	}
}

// randomSecret генерирует случайный base64-ключ для development-режима.
func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
