package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/peckorder/internal/api"
	"github.com/Harshitk-cp/peckorder/internal/buildconfig"
	"github.com/Harshitk-cp/peckorder/internal/config"
	"github.com/Harshitk-cp/peckorder/internal/outcome"
	"github.com/Harshitk-cp/peckorder/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func loadTable(logger *zap.Logger) *outcome.Table {
	path := config.OutcomeTablePath()
	if path == "" {
		table, err := outcome.Default()
		if err != nil {
			logger.Fatal("failed to load embedded outcome table", zap.Error(err))
		}
		logger.Info("outcome table loaded", zap.String("source", "embedded"), zap.Int("entries", table.Len()))
		return table
	}

	table, err := outcome.LoadFile(path)
	if err != nil {
		logger.Fatal("failed to load outcome table", zap.String("path", path), zap.Error(err))
	}
	logger.Info("outcome table loaded", zap.String("source", path), zap.Int("entries", table.Len()))
	return table
}

func main() {
	_ = config.Load()

	logger, err := newLogger(config.LogLevel())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting peckorder",
		zap.String("version", buildconfig.Version()),
		zap.String("commit", buildconfig.Commit()))

	table := loadTable(logger)

	dbURL := config.DatabaseURL()
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	if err := store.Migrate(ctx, pool, config.MigrationsPath(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	app := api.NewApp(pool, table, logger)

	trainerOn := config.TrainerGames() > 0
	if trainerOn {
		app.Trainer.Start()
	}

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	if trainerOn {
		app.Trainer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
