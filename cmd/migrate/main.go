// Package main applies the PostgreSQL schema migrations. Run it once
// before starting any component that touches the academic tables.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/campus-hub/campus-management-hub/config"
	"github.com/campus-hub/campus-management-hub/internal/infrastructure/persistence/postgres"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	log := logger.New(logger.Options{
		Level: logger.ParseLevel(cfg.Observability.LogLevel),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	start := time.Now()
	if err := postgres.Migrate(ctx, conn); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("migrations applied", logger.Latency(time.Since(start)))
	return nil
}
