package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"iodine-tracker/internal/config"
	"iodine-tracker/internal/dataset"
	"iodine-tracker/internal/logger"
	"iodine-tracker/internal/models"
	"iodine-tracker/internal/server"
	"iodine-tracker/internal/storage"
	"iodine-tracker/internal/tracker"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	if cfg.Version {
		fmt.Printf("iodine-tracker version %s\n", server.Version)
		os.Exit(0)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		config.Exitf("Error: failed to initialize logger: %v", err)
	}
	defer logger.Sync(log)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn("failed to load .env", zap.Error(envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("iodine tracker stopped", zap.Error(err))
		logger.Sync(log)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	store, err := storage.NewSQLiteStorage(ctx, cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	err = store.Bootstrap(ctx, func() ([]models.SourceRow, error) {
		return dataset.LoadFile(cfg.CSVPath)
	})
	if err != nil {
		return fmt.Errorf("failed to prepare catalog: %w", err)
	}

	srv := server.NewTrackerServer(cfg.Address(), store, tracker.NewService(store, store), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
