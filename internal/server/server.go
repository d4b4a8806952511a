// Пакет server — HTTP-сервер Metadatos с graceful shutdown.
// Без TLS — TLS termination на reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	apihandlers "github.com/Gabo-araya/metadatos-app/internal/api/handlers"
	"github.com/Gabo-araya/metadatos-app/internal/api/middleware"
	"github.com/Gabo-araya/metadatos-app/internal/config"
	uihandlers "github.com/Gabo-araya/metadatos-app/internal/ui/handlers"
	uimiddleware "github.com/Gabo-araya/metadatos-app/internal/ui/middleware"
	"github.com/Gabo-araya/metadatos-app/internal/ui/static"
)

// Handlers — обработчики, монтируемые на маршруты сервера.
type Handlers struct {
	Public *uihandlers.PublicHandler
	Auth   *uihandlers.AuthHandler
	Admin  *uihandlers.AdminHandler
	Health *apihandlers.HealthHandler
}

// Server — HTTP-сервер Metadatos.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers, guard *uimiddleware.SessionGuard) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders(cfg.SecureCookie))

	// Публичные страницы
	router.Get("/", h.Public.HandleIndex)
	router.Get("/help", h.Public.HandleHelp)
	router.Get("/file/{id}", h.Public.HandleDetail)
	router.Get("/file/{id}/download", h.Public.HandleDownload)

	// Аутентификация. Logout принимает и GET (прямая ссылка из navbar),
	// и POST (форма).
	router.Get("/login", h.Auth.HandleLoginForm)
	router.Post("/login", h.Auth.HandleLogin)
	router.Get("/logout", h.Auth.HandleLogout)
	router.Post("/logout", h.Auth.HandleLogout)

	// Панель администратора — за session guard
	router.Group(func(r chi.Router) {
		r.Use(guard.Middleware())
		r.Get("/admin", h.Admin.HandlePanel)
		r.Post("/admin", h.Admin.HandleUpload)
		r.Post("/admin/delete/{id}", h.Admin.HandleDelete)
	})

	// Служебные endpoints
	router.Get("/health", h.Health.HealthReady)
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	// Статика из встроенной FS
	router.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(static.FileSystem())))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
