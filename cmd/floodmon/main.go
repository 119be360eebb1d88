package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/flood-monitor/internal/adapter/http"
	"github.com/couchcryptid/flood-monitor/internal/adapter/floodapi"
	kafkaadapter "github.com/couchcryptid/flood-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/flood-monitor/internal/adapter/kvstore"
	"github.com/couchcryptid/flood-monitor/internal/config"
	"github.com/couchcryptid/flood-monitor/internal/monitor"
	"github.com/couchcryptid/flood-monitor/internal/observability"
	"github.com/couchcryptid/flood-monitor/internal/snapshot"
	"github.com/jonboulle/clockwork"
)

func main() {
	if _, err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	logger.Info("snapshot store ready", "backend", cfg.StoreBackend)

	// Publishing is feature-flagged via KAFKA_BROKERS.
	var publisher monitor.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	clock := clockwork.NewRealClock()
	client := floodapi.NewClient(cfg.FeedURL, cfg.FeedTimeout, logger)
	cache := snapshot.New(store, clock, cfg.CacheTTL)
	m := monitor.New(client, cache, publisher, clock, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, m, m, cfg.DisplayTimezone, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	monitorDone := startMonitor(ctx, m, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	// The store and writer stay open until an in-flight refresh has finished.
	if err := awaitMonitor(shutdownCtx, monitorDone); err != nil {
		logger.Error("monitor did not stop before shutdown timeout", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := closeStore.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}

type runner interface {
	Run(ctx context.Context) error
}

// startMonitor runs m until ctx is cancelled. The returned channel is
// closed once Run has returned.
func startMonitor(ctx context.Context, m runner, logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := m.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()
	return done
}

// awaitMonitor blocks until done is closed or ctx expires.
func awaitMonitor(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore returns the configured snapshot store and a closer for it.
func openStore(cfg *config.Config) (snapshot.Store, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return kvstore.NewMemory(), nopCloser{}, nil
	case config.StoreSQLite:
		s, err := kvstore.OpenSQLite(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
