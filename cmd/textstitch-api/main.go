package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/textstitch/textstitch/internal/api"
	"github.com/textstitch/textstitch/internal/batch"
	"github.com/textstitch/textstitch/internal/config"
	"github.com/textstitch/textstitch/internal/logging"
	"github.com/textstitch/textstitch/internal/processor"
	"github.com/textstitch/textstitch/internal/storage"
	"github.com/textstitch/textstitch/internal/watcher"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "config file path")
	watch := flag.Bool("watch", false, "also process files appearing in the watch directory")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("textstitch-api %s\n", version)
		return
	}

	// Missing .env is fine; environment variables still apply
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogJSON)

	if err := run(cfg, *watch, logger); err != nil {
		logger.Fatal("server failed", "error", err)
	}
}

func run(cfg *config.Config, watch bool, logger *log.Logger) error {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}
	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := api.NewServer(cfg, store, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.RetentionDays > 0 {
		go retentionSweep(ctx, store, cfg.RetentionDays, logger)
	}

	if watch && cfg.Watch.Directory != "" {
		if err := startWatcher(ctx, cfg, store, logger); err != nil {
			return err
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// retentionSweep deletes results older than the retention window, once
// at startup and then daily.
func retentionSweep(ctx context.Context, store storage.Store, days int, logger *log.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		cutoff := time.Now().AddDate(0, 0, -days)
		deleted, err := store.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("retention sweep failed", "error", err)
		} else if deleted > 0 {
			logger.Info("retention sweep", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func startWatcher(ctx context.Context, cfg *config.Config, store storage.Store, logger *log.Logger) error {
	proc, err := processor.New(cfg.Processing)
	if err != nil {
		return err
	}

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	w, err := watcher.New(cfg.Watch.Extensions, debounce, logger)
	if err != nil {
		return err
	}

	events, err := w.Watch(ctx, cfg.Watch.Directory)
	if err != nil {
		w.Stop()
		return err
	}

	logger.Info("watching directory", "dir", cfg.Watch.Directory)
	runner := batch.New(proc, store, logger)
	go func() {
		defer w.Stop()
		for path := range events {
			stats, err := runner.ProcessFiles(ctx, []string{path}, &batch.Config{Workers: 1})
			if err != nil {
				logger.Error("processing failed", "path", path, "error", err)
				continue
			}
			logger.Info("processed", "path", path,
				"chunks", stats.ChunksCreated, "failed", stats.FilesFailed)
		}
	}()
	return nil
}
