package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/product-catalog/internal/api"
	"github.com/product-catalog/internal/auth"
	"github.com/product-catalog/internal/catalog"
	"github.com/product-catalog/internal/config"
	"github.com/product-catalog/internal/logging"
	"github.com/product-catalog/internal/middleware"
	"github.com/product-catalog/internal/monitor"
	"github.com/product-catalog/internal/storage"

	_ "github.com/product-catalog/docs" // swagger docs
)

// @title Product Catalog API
// @version 1.0
// @description Product catalog with CRUD endpoints and token based user registration, login and logout.

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description Enter the access token with the `Token ` prefix, e.g. "Token 9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	log.Info("connecting to database", "host", cfg.Database.Host, "database", cfg.Database.Database)
	db, err := storage.NewDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	// Run migrations
	log.Info("running migrations")
	if err := db.RunMigrations(ctx); err != nil {
		return err
	}

	// Initialize repositories
	productRepo := storage.NewProductRepository(db)
	userRepo := storage.NewUserRepository(db)
	tokenRepo := storage.NewTokenRepository(db)

	// Initialize services
	authority := auth.NewAuthority(userRepo, tokenRepo, cfg.Auth, log)
	catalogSvc := catalog.NewService(productRepo, log)

	if cfg.Seed.SampleData {
		created, err := catalogSvc.Seed(ctx, catalog.SampleProducts())
		if err != nil {
			log.Warn("failed to seed sample products", "error", err)
		} else {
			log.Info("sample products seeded", "created", created)
		}
	}

	// Start database health monitor
	healthMonitor := monitor.NewHealthMonitor(db, cfg.Health, log)
	if err := healthMonitor.Start(ctx); err != nil {
		return err
	}
	defer healthMonitor.Stop()

	// Initialize auth middleware and API handlers
	authMiddleware := middleware.NewAuthMiddleware(authority, log)
	handler := api.NewHandler(authority, catalogSvc, healthMonitor, log)

	// Setup router
	router := api.NewRouter(handler, authMiddleware, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
