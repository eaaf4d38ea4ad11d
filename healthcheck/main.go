package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeafMist/dept-site/backend/internal/config"
	"github.com/DeafMist/dept-site/backend/internal/logger"
)

func main() {
	log := logger.New("healthcheck")
	cfg, err := config.LoadHealthCheck()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if !waitForDir(ctx, log, cfg.ContentDir) {
		log.Error("content directory unavailable", slog.String("dir", cfg.ContentDir))
		os.Exit(1)
	}

	var changes <-chan struct{}
	if cfg.Watch {
		w, err := newWatcher(cfg.ContentDir, cfg.Debounce, log)
		if err != nil {
			log.Warn("watch disabled", slog.Any("err", err))
		} else {
			defer w.Close()
			go w.run(ctx)
			changes = w.C()
		}
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info("health check running",
		slog.String("dir", cfg.ContentDir),
		slog.Duration("interval", cfg.Interval),
		slog.Bool("watch", changes != nil),
	)

	runOnce(ctx, log, cfg)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			runOnce(ctx, log, cfg)
		case <-changes:
			log.Debug("content changed")
			runOnce(ctx, log, cfg)
		}
	}
}

// waitForDir polls for the content directory with exponential backoff,
// since it is often a volume mounted after the container starts.
func waitForDir(ctx context.Context, log *slog.Logger, dir string) bool {
	maxRetries := 10
	retryDelay := 2 * time.Second
	for i := 0; i < maxRetries; i++ {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return true
		}
		log.Warn("content directory not ready, retrying",
			slog.Any("err", err),
			slog.Int("attempt", i+1),
			slog.Int("max_retries", maxRetries),
			slog.Duration("retry_in", retryDelay),
		)
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return false
		}
		retryDelay = min(retryDelay*2, 30*time.Second)
	}
	return false
}
