package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ordertracker/cmd"
	"ordertracker/internal/pkg/logger"
	"ordertracker/internal/pkg/metrics"

	"go.uber.org/zap"
)

func main() {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}

	os.Exit(exitCode(cfg, zapLogger))
}

// exitCode runs the service and flushes the logger before main exits.
func exitCode(cfg cmd.Config, zapLogger *zap.Logger) int {
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Error("order tracker stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg cmd.Config, zapLogger *zap.Logger) error {
	uowFactory, closeStore, err := cmd.OpenStore(cfg, zapLogger.Named("store"))
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			zapLogger.Warn("closing store", zap.Error(err))
		}
	}()

	app, err := cmd.NewCompositionRoot(cfg, uowFactory, metrics.New(), zapLogger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = app.BootstrapAdmin(ctx); err != nil {
		return err
	}

	router, err := app.CreateRouter()
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("http server listening", zap.String("port", cfg.HTTPPort))
		if err := router.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		zapLogger.Info("received shutdown signal")
	case err = <-serverErr:
		zapLogger.Error("http server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	app.Hub().Close()
	if shutdownErr := router.Shutdown(shutdownCtx); shutdownErr != nil {
		zapLogger.Warn("http server shutdown", zap.Error(shutdownErr))
	}
	jobManager.StopAll()
	zapLogger.Info("order tracker stopped")
	return err
}
