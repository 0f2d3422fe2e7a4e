package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/accounting_core/internal/core/services"
	"github.com/SscSPs/accounting_core/internal/encryption"
	"github.com/SscSPs/accounting_core/internal/handlers"
	"github.com/SscSPs/accounting_core/internal/middleware"
	"github.com/SscSPs/accounting_core/internal/platform/config"
	"github.com/SscSPs/accounting_core/internal/repositories/database/pgsql"
	"github.com/SscSPs/accounting_core/pkg/database"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The key is checked before anything touches the database.
	cryptoService, err := encryption.NewService(cfg.EncryptionKey,
		encryption.WithAuditLogger(encryption.NewSlogAuditLogger(logger)))
	if err != nil {
		logger.Error("Invalid ENCRYPTION_KEY", slog.String("category", encryption.Category(err)))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	interceptor := encryption.NewFieldInterceptor(cryptoService, pgsql.ProtectedFieldConfig())
	repos := pgsql.NewRepositoryProvider(dbPool, interceptor)
	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
