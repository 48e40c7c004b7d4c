package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"formkit/internal/config"
	"formkit/internal/db"
	httpapi "formkit/internal/http"
	"formkit/internal/service"
	"formkit/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// RunServer serves the API until ctx is cancelled.
func RunServer(ctx context.Context, cfg config.Config) error {
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.OTelEnabled,
		ServiceName: cfg.OTelServiceName,
		Prometheus:  cfg.MetricsPrometheusEnabled,
	})
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			slog.Error("shutdown telemetry", "error", err)
		}
	}()
	logger := tel.Logger

	database, err := db.OpenPostgres(ctx, cfg.DatabaseURL, poolConfig(cfg))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, database, logger); err != nil {
			return err
		}
	}

	svc := service.New(
		database,
		service.WithAuthConfig(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAccessTokenTTL),
		service.WithPasswordReset(cfg.PasswordResetTTL, logResetNotifier(logger)),
		service.WithPivotYear(cfg.BirthDatePivotYear),
	)
	if err := ensureBootstrapUser(ctx, svc, cfg, logger); err != nil {
		return err
	}

	router := httpapi.NewRouter(ctx, svc, httpapi.RouterConfig{
		ServiceName: cfg.OTelServiceName,
		RateLimit: httpapi.RateLimitConfig{
			RPS:   cfg.RateLimitRPS,
			Burst: cfg.RateLimitBurst,
		},
		MetricsHandler: tel.MetricsHandler,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("api listening", "port", cfg.Port)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("run api: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	return nil
}

// RunMigrations applies pending migrations and reports the resulting version.
func RunMigrations(ctx context.Context, cfg config.Config, logger *slog.Logger) (int64, error) {
	database, err := db.OpenPostgres(ctx, cfg.DatabaseURL, poolConfig(cfg))
	if err != nil {
		return 0, fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, logger); err != nil {
		return 0, err
	}
	return db.MigrationVersion(ctx, database)
}

func poolConfig(cfg config.Config) db.PoolConfig {
	return db.PoolConfig{
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}
}

func ensureBootstrapUser(ctx context.Context, svc *service.Service, cfg config.Config, logger *slog.Logger) error {
	email := strings.TrimSpace(cfg.BootstrapUserEmail)
	password := strings.TrimSpace(cfg.BootstrapUserPassword)
	if email == "" {
		return nil
	}
	if err := svc.EnsureUser(ctx, email, password); err != nil {
		return fmt.Errorf("ensure bootstrap user: %w", err)
	}
	logger.Info("bootstrap user ensured", "email", email)
	return nil
}

// logResetNotifier records that a reset was issued. The token itself is never
// logged; mail delivery plugs in here.
func logResetNotifier(logger *slog.Logger) service.PasswordResetNotifier {
	return func(ctx context.Context, email string, _ string, expiresAt time.Time) error {
		logger.InfoContext(ctx, "password reset issued", "email", email, "expires_at", expiresAt)
		return nil
	}
}
