package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guessme/internal/config"
	"guessme/internal/database"
	"guessme/internal/handlers"
	"guessme/internal/logging"
	"guessme/internal/security"
	"guessme/internal/service"
	"guessme/internal/telemetry"

	ghandlers "github.com/gorilla/handlers"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "guessme: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Dev:    cfg.LogDev,
		File:   cfg.LogFile,
		MaxAge: cfg.LogMaxAge,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, cfg.OTelServiceName)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			sugar.Warnw("tracer shutdown failed", "error", err)
		}
	}()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()
	sugar.Infow("database connection established", "type", cfg.DatabaseType)

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	catalog := service.NewCatalogService(db, sugar.Named("catalog"))
	ledger := service.NewLedger(cfg.DailyLives)
	games := service.NewGameService(db, catalog, ledger, service.GameConfig{
		MaxAttempts: cfg.MaxAttempts,
		Location:    cfg.Location(),
	}, sugar.Named("game"))
	auth := service.NewAuthService(db, tokens, cfg.IsAdminEmail, sugar.Named("auth"))

	// 10 signup/login attempts per minute per client
	limiter := security.NewRateLimiter(10, time.Minute)
	defer limiter.Stop()

	httpLogger := sugar.Named("http")
	middleware := handlers.NewMiddleware(tokens, httpLogger)
	mux := handlers.Routes(middleware,
		handlers.NewGameHandler(games, catalog, httpLogger),
		handlers.NewAuthHandler(auth, httpLogger),
		handlers.NewAdminHandler(auth, catalog, httpLogger),
		limiter,
	)

	cors := ghandlers.CORS(
		ghandlers.AllowedOrigins(cfg.AllowedOrigins),
		ghandlers.AllowCredentials(),
		ghandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		ghandlers.AllowedHeaders([]string{"Content-Type", "Authorization", handlers.RequestIDHeader}),
	)
	recovery := ghandlers.RecoveryHandler(
		ghandlers.RecoveryLogger(zap.NewStdLog(logger)),
		ghandlers.PrintRecoveryStack(true),
	)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      recovery(cors(middleware.Logging(mux))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	sugar.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
