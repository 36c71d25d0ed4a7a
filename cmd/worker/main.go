// Package main is the entry point for the mail delivery worker.
//
// The worker is the consuming half of the mail pipeline: it pops email
// jobs off the Redis queue (high-priority lane first), delivers them over
// SMTP with retries and rate limiting, and exposes delivery metrics.
// Producers enqueue independently; neither side waits on the other.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/campus-hub/campus-management-hub/config"
	"github.com/campus-hub/campus-management-hub/internal/infrastructure/delivery"
	"github.com/campus-hub/campus-management-hub/internal/infrastructure/metrics"
	"github.com/campus-hub/campus-management-hub/internal/infrastructure/persistence/redis"
	opshttp "github.com/campus-hub/campus-management-hub/internal/interface/http"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting mail delivery worker",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Int("workers", cfg.Worker.Workers),
	)

	// Mail queue connection. A failure here is fatal: a worker without a
	// queue has nothing to do.
	queue, err := redis.NewQueue(redis.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PopTimeout:   2 * time.Second,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to connect to mail queue: %w", err)
	}
	defer func() {
		log.Info("closing mail queue connection")
		if err := queue.Close(); err != nil {
			log.Error("failed to close mail queue", logger.Err(err))
		}
	}()

	sender := delivery.NewSender(delivery.SMTPConfig{
		Host:     cfg.Mailer.SMTPHost,
		Port:     cfg.Mailer.SMTPPort,
		Username: cfg.Mailer.SMTPUser,
		Password: cfg.Mailer.SMTPPassword,
		From:     cfg.Mailer.From,
	}, log)

	var opsSrv *opshttp.Server
	if cfg.Observability.MetricsEnabled {
		metrics.Init()
		opsCfg := opshttp.DefaultConfig()
		opsCfg.Port = cfg.Observability.MetricsPort
		opsSrv = opshttp.NewServer(opsCfg, opshttp.Dependencies{
			Logger:         log,
			Queue:          queue,
			MetricsHandler: metrics.Handler(),
		})
		opsErrCh := opsSrv.StartAsync()
		go func() {
			if err := <-opsErrCh; err != nil {
				log.Error("ops server failed", logger.Err(err))
			}
		}()
	}

	poolCtx, stopPool := context.WithCancel(ctx)
	defer stopPool()

	var wg sync.WaitGroup
	pool := delivery.NewPool(
		queue,
		sender,
		cfg.Worker.Workers,
		cfg.Worker.RatePerSecond,
		cfg.Worker.RetrySeconds,
		log,
	)
	pool.Start(poolCtx, &wg, queue)

	// Wait for a shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	stopPool()

	// give in-flight deliveries until the shutdown timeout to finish
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("delivery pool drained")
	case <-time.After(cfg.App.ShutdownTimeout):
		log.Warn("shutdown timeout exceeded, abandoning in-flight deliveries")
	}

	if opsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = opsSrv.Shutdown(shutdownCtx)
	}

	log.Info("mail delivery worker stopped")
	return nil
}
