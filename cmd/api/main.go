// Command api serves the user directory over HTTP, reading through the cache.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/raftlab/userdir/internal/bootstrap"
	"github.com/raftlab/userdir/internal/config"
	"github.com/raftlab/userdir/internal/handler"
	"github.com/raftlab/userdir/internal/logging"
	"github.com/raftlab/userdir/internal/metrics"
	"github.com/raftlab/userdir/internal/middleware"
	"github.com/raftlab/userdir/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := metrics.NewInMemory()

	app, err := bootstrap.New(ctx, cfg, logger, recorder)
	if err != nil {
		logger.Error("failed to initialize",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}

	r := setupRouter(
		handler.New(),
		handler.NewHealthHandler(app.Store),
		handler.NewUserHandler(app.Directory, logger),
		handler.NewMetricsHandler(recorder),
		logger,
	)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("cache", func(context.Context) error { return app.Close() })

	logger.Info("starting server",
		"port", cfg.AppPort,
		"api_base_url", cfg.API.BaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	userHandler *handler.UserHandler,
	metricsHandler *handler.MetricsHandler,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.Get)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// redactURL strips the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	return parsed.Redacted()
}

// sanitizeError replaces each secret in err's message with its redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, redactURL(secret))
	}
	return msg
}
