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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	database "github.com/rfcorreia/go-identity-service/app/db"
	appLogger "github.com/rfcorreia/go-identity-service/app/logger"
	"github.com/rfcorreia/go-identity-service/app/observability/metrics"
	"github.com/rfcorreia/go-identity-service/config"
	"github.com/rfcorreia/go-identity-service/internal/api/auth"
	"github.com/rfcorreia/go-identity-service/internal/api/user"
	apiRouter "github.com/rfcorreia/go-identity-service/internal/router"
	"github.com/rfcorreia/go-identity-service/internal/store"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	if cfg.Auth.SecretKey == "" {
		logger.Error("JWT secret key is not configured")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	userStore, cleanup, err := openStore(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to open user store", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	tokenService := auth.NewTokenService([]byte(cfg.Auth.SecretKey), cfg.Auth.Issuer)
	authService := auth.NewAuthService(userStore, tokenService, logger)
	userService := user.NewUserService(userStore, logger)

	if err := authService.Bootstrap(ctx); err != nil {
		logger.Error("Failed to bootstrap default admin", slog.Any("error", err))
		os.Exit(1)
	}

	authHandler := auth.NewAuthHandler(authService, logger)
	userHandler := user.NewUserHandler(userService, logger)

	mainRouter := apiRouter.SetupRouter(&apiRouter.Config{
		AuthHandler:            authHandler,
		UserHandler:            userHandler,
		AuthenticateMiddleware: auth.Authenticate(tokenService, logger),
	})

	httpMetrics := metrics.InitHTTPMetrics()

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Use(httpMetrics.Middleware)
	router.Mount("/", mainRouter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Handlers.Prometheus.Port),
		Handler: metricsMux,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting metrics server", slog.String("address", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutdown signal received, starting graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server graceful shutdown failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

// openStore builds the configured storage backend and returns it with
// its cleanup function.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.UserStore, func(), error) {
	switch cfg.Store.Driver {
	case "postgres":
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			return nil, nil, err
		}
		pool, err := database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			return nil, nil, err
		}
		if !database.WaitForDB(ctx, pool, logger) {
			pool.Close()
			return nil, nil, fmt.Errorf("database not ready")
		}
		return store.NewPostgresStore(pool, logger), pool.Close, nil

	case "file", "":
		s, err := store.NewFileStore(cfg.Store.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// setupLogger configures and returns the application logger.
func setupLogger(mode string) *slog.Logger {
	if mode == "development" || mode == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		return slog.New(tint.NewHandler(os.Stdout, tintOpts))
	}

	jsonOpts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
}
