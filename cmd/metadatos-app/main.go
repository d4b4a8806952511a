// Точка входа Metadatos — файловый реестр с метаданными Dublin Core.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// создаёт хранилище файлов и сервисный слой, запускает HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	apihandlers "github.com/Gabo-araya/metadatos-app/internal/api/handlers"
	"github.com/Gabo-araya/metadatos-app/internal/config"
	"github.com/Gabo-araya/metadatos-app/internal/database"
	"github.com/Gabo-araya/metadatos-app/internal/repository"
	"github.com/Gabo-araya/metadatos-app/internal/server"
	"github.com/Gabo-araya/metadatos-app/internal/service"
	"github.com/Gabo-araya/metadatos-app/internal/storage/filestore"
	"github.com/Gabo-araya/metadatos-app/internal/ui/auth"
	uihandlers "github.com/Gabo-araya/metadatos-app/internal/ui/handlers"
	uimiddleware "github.com/Gabo-araya/metadatos-app/internal/ui/middleware"
	"github.com/Gabo-araya/metadatos-app/internal/ui/templates"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Metadatos запускается",
		slog.String("version", config.Version),
		slog.String("mode", cfg.Mode),
		slog.Int("port", cfg.Port),
	)
	cfg.WarnDevDefaults(logger)

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5. Хранилище файлов
	store, err := filestore.New(cfg.UploadDir)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища файлов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Хранилище файлов готово", slog.String("dir", store.DataDir()))

	// 6. Repositories
	fileRepo := repository.NewFileRepository(pool)
	activityRepo := repository.NewActivityLogRepository(pool)

	// 7. Services
	auditSvc := service.NewAuditService(activityRepo, logger)
	uploadSvc := service.NewUploadService(cfg, fileRepo, store, auditSvc, logger)
	querySvc := service.NewFileQueryService(fileRepo, store, logger)

	// 8. Session Manager — шифрование сессий администратора (AES-256-GCM)
	sessionMgr, err := auth.NewSessionManager(cfg.SecretKey, cfg.SessionTTL, cfg.SecureCookie)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 9. Рендерер HTML-шаблонов
	renderer, err := templates.NewRenderer(logger)
	if err != nil {
		logger.Error("Ошибка инициализации шаблонов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Handlers
	handlers := server.Handlers{
		Public: uihandlers.NewPublicHandler(cfg, querySvc, store, activityRepo, sessionMgr, renderer, logger),
		Auth:   uihandlers.NewAuthHandler(cfg, sessionMgr, auditSvc, renderer, logger),
		Admin:  uihandlers.NewAdminHandler(cfg, uploadSvc, querySvc, activityRepo, renderer, logger),
		Health: apihandlers.NewHealthHandler(database.NewReadinessChecker(pool), store),
	}
	guard := uimiddleware.NewSessionGuard(sessionMgr, logger)

	// 11. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, handlers, guard)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Metadatos остановлен")
}
