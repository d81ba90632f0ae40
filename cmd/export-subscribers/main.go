package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/internal/database/postgres"
	"github.com/notethatdown/notethatdown-api/internal/services"
	"github.com/notethatdown/notethatdown-api/pkg/db"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/storage"
	"go.uber.org/zap"
)

const exportTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateExport()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Server.AppEnv,
		ServiceName: "notethatdown-export",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		logger.Error("Waitlist export failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:        cfg.Database.URL,
		MaxConns:   2,
		MinConns:   0,
		CACertPath: cfg.Database.CACertPath,
	})
	if err != nil {
		return err
	}
	defer db.Close(pool)

	uploader, err := storage.NewClient(storage.Options{
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.BucketName,
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		UsePathStyle:    cfg.Storage.UsePathStyle,
	})
	if err != nil {
		return err
	}

	res, err := services.NewExportService(postgres.NewClient(pool), uploader).ExportSubscribers(ctx)
	if err != nil {
		return err
	}

	fmt.Println(res.Location)
	return nil
}
