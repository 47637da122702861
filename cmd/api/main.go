// Package main is the entrypoint for the roster API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/roster/roster/internal/cache"
	"github.com/roster/roster/internal/config"
	"github.com/roster/roster/internal/handler"
	"github.com/roster/roster/internal/metrics"
	"github.com/roster/roster/internal/middleware"
	"github.com/roster/roster/internal/repository"
	"github.com/roster/roster/internal/server"
	"github.com/roster/roster/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo := repository.New(repository.Config{
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: cfg.MongoConnectTimeout,
		Logger:         logger,
	})

	// The first request retries if this fails.
	if _, err := repo.EnsureConnected(ctx); err != nil {
		logger.Warn(
			"initial database connect failed",
			slog.String("error", sanitizeError(err, cfg.MongoURI)),
			slog.String("mongodb_uri", redactURL(cfg.MongoURI)),
		)
	}

	limiter, closeLimiter := initRateLimiter(ctx, cfg, logger)

	var (
		recorder       metrics.Recorder = metrics.NewNoop()
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		prom, err := metrics.NewPrometheus()
		if err != nil {
			logger.Error("failed to register metrics", "error", err)
			os.Exit(1)
		}
		recorder = prom
		metricsHandler = prom.Handler()
	}

	userService := service.NewUserService(repo, recorder)

	r := handler.NewRouter(handler.RouterConfig{
		Health:             handler.NewHealthHandler(userService, logger),
		Users:              handler.NewUserHandler(userService, logger),
		Logger:             logger,
		Recorder:           recorder,
		Metrics:            metricsHandler,
		Limiter:            limiter,
		RateLimitEnabled:   cfg.RateLimitEnabled,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		IsDevelopment:      cfg.IsDevelopment(),
		MaxBodySize:        cfg.MaxRequestBodySize,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})
	srv.OnShutdown("database", repo.Close)
	if closeLimiter != nil {
		srv.OnShutdown("redis", closeLimiter)
	}

	logger.Info("starting server",
		"port", cfg.Port,
		"database", cfg.MongoDatabase,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initRateLimiter uses Redis when REDIS_URL is set and reachable, process
// memory otherwise.
func initRateLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (middleware.RateLimiter, server.ShutdownFunc) {
	if cfg.RedisURL == "" {
		logger.Info("rate limiter using process memory")
		return cache.NewMemory(), nil
	}

	c, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn(
			"failed to connect to Redis, rate limiter using process memory",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return cache.NewMemory(), nil
	}
	logger.Info("connected to Redis")

	return c, func(context.Context) error { return c.Close() }
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
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL drops the password from a connection string.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError replaces any occurrence of the given connection strings in
// err's message with their redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
