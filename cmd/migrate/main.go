package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/pkg/db"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", string(db.MigrateUp), "migration direction: up, or down to roll back one step")
	path := flag.String("path", "file://migrations", "migrations source URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Server.AppEnv,
		ServiceName: "notethatdown-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dir := db.MigrationDirection(*direction)
	if dir != db.MigrateUp && dir != db.MigrateDown {
		logger.Error("Unknown migration direction", zap.String("direction", *direction))
		os.Exit(2)
	}

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)),
		zap.String("direction", *direction))

	poolCfg := db.PoolConfig{URL: cfg.Database.URL, CACertPath: cfg.Database.CACertPath}
	if err := db.RunMigrations(poolCfg, *path, dir); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL drops the password from the database URL for logging
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.Redacted()
}
