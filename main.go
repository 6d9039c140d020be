package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	database "github.com/FACorreiaa/go-contact-registry/app/db"
	appLogger "github.com/FACorreiaa/go-contact-registry/app/logger"
	"github.com/FACorreiaa/go-contact-registry/app/tracer"
	"github.com/FACorreiaa/go-contact-registry/config"
	"github.com/FACorreiaa/go-contact-registry/internal/container"
)

// @title						Contact Registry API
// @version					1.0
// @description				Counties and persons behind stateless JWT authentication.
// @host						localhost:8000
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and the JWT.
func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.New(cfg.Mode, os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, &cfg, logger); err != nil {
		logger.Error("Application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	providers, err := tracer.InitTracingAndMetrics()
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	// Run migrations before initializing the main pool
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return fmt.Errorf("database migrations: %w", err)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		return fmt.Errorf("database pool: %w", err)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		return errors.New("database not ready after waiting")
	}

	c, err := container.NewContainer(cfg, pool, logger)
	if err != nil {
		return fmt.Errorf("container: %w", err)
	}

	admin := cfg.Auth.BootstrapAdmin
	if err = c.UserService.EnsureAdmin(ctx, admin.Username, admin.Password); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      c.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		var err error
		api := cfg.Handlers.ExternalAPI
		if api.EnableTLS {
			err = srv.ListenAndServeTLS(api.CertFile, api.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.Handlers.Prometheus.Enabled {
		g.Go(func() error {
			return tracer.MetricsServer(gctx, cfg.Handlers.Prometheus.Port, logger)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, starting graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		logger.Info("HTTP server gracefully stopped")
		return nil
	})

	return g.Wait()
}
