// Package main is the entrypoint for the CWA weather proxy.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cwaproxy/cwaproxy/internal/config"
	"github.com/cwaproxy/cwaproxy/internal/handler"
	"github.com/cwaproxy/cwaproxy/internal/metrics"
	"github.com/cwaproxy/cwaproxy/internal/middleware"
	"github.com/cwaproxy/cwaproxy/internal/server"
	"github.com/cwaproxy/cwaproxy/internal/service"
	"github.com/cwaproxy/cwaproxy/internal/upstream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if !cfg.HasCredential() {
		// Not fatal: / and /health keep working, weather routes report the problem.
		logger.Warn("CWA_API_KEY is not set; weather endpoints will return configuration errors")
	}

	recorder := metrics.NewInMemory()
	client := upstream.NewClient(cfg.CWAAPIURL, upstream.NewHTTPClient(cfg.UpstreamTimeout), logger)
	weatherService := service.NewWeatherService(client, cfg.CWAAPIKey, recorder)

	r := setupRouter(cfg, weatherService, recorder, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("upstream client", client.Close)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"upstream_url", redactURL(cfg.CWAAPIURL),
		"credential_configured", cfg.HasCredential(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// weatherService is what the router needs from the service layer.
type weatherService interface {
	handler.Forecaster
	handler.HealthChecker
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	cfg *config.Config,
	svc weatherService,
	snapshotter metrics.Snapshotter,
	logger *slog.Logger,
) *chi.Mux {
	h := handler.New(logger)
	healthHandler := handler.NewHealthHandler(svc)
	weatherHandler := handler.NewWeatherHandler(svc, logger)
	metricsHandler := handler.NewMetricsHandler(snapshotter)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.GetHead)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Root discovery document
	r.Get("/", h.Root)
	r.Get("/metrics", metricsHandler.Metrics)

	routes := func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ready", healthHandler.Ready)
		r.Get("/weather", weatherHandler.All)
		r.Get("/weather/city/{locationName}", weatherHandler.ByCity)
	}

	routes(r)
	// Legacy prefix used by existing front-ends.
	r.Route("/api", routes)

	// A known path with an unsupported method is still an unknown route.
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	return r
}

// redactURL drops user info and query values so the URL is safe to log.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	parsed.User = nil
	parsed.RawQuery = ""
	return parsed.String()
}
