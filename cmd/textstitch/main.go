package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/textstitch/textstitch/internal/batch"
	"github.com/textstitch/textstitch/internal/config"
	"github.com/textstitch/textstitch/internal/exporter"
	"github.com/textstitch/textstitch/internal/logging"
	"github.com/textstitch/textstitch/internal/mcp"
	"github.com/textstitch/textstitch/internal/processor"
	"github.com/textstitch/textstitch/internal/storage"
	"github.com/textstitch/textstitch/internal/watcher"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const usage = `textstitch - document processing and chunking for dataset preparation

Usage:
  textstitch process [flags] <path>...   Process files or directories
  textstitch watch [flags] <dir>         Watch a directory, processing new files
  textstitch export [flags] <result-id>  Export a stored result
  textstitch serve [flags]               Run the MCP server on stdio
  textstitch version                     Print version information

Run 'textstitch <command> -h' for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "process":
		err = runProcess(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "version", "--version", "-v":
		printVersion()
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("textstitch %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Build Mode: %s\n", storage.BuildMode)
	fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
}

func runProcess(args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	workers := fs.Int("workers", 0, "concurrent workers (0 = CPU count)")
	exts := fs.String("ext", "", "comma-separated extension filter for directories")
	dryRun := fs.Bool("dry-run", false, "process without persisting results")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("process: at least one file or directory required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogJSON)

	proc, err := processor.New(cfg.Processing)
	if err != nil {
		return err
	}

	var store storage.Store
	if !*dryRun {
		store, err = openStore(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	runner := batch.New(proc, store, logger)
	runCfg := &batch.Config{
		Workers:    *workers,
		Extensions: splitList(*exts),
	}

	ctx, cancel := signalContext()
	defer cancel()

	var files []string
	for _, arg := range fs.Args() {
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}
		if info.IsDir() {
			stats, err := runner.ProcessDirectory(ctx, arg, runCfg)
			if err != nil {
				return err
			}
			printStats(arg, stats)
			continue
		}
		files = append(files, arg)
	}

	if len(files) > 0 {
		stats, err := runner.ProcessFiles(ctx, files, runCfg)
		if err != nil {
			return err
		}
		printStats(strings.Join(files, ", "), stats)
	}
	return nil
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogJSON)

	dir := cfg.Watch.Directory
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	if dir == "" {
		return fmt.Errorf("watch: directory required (argument or watch.directory in config)")
	}

	proc, err := processor.New(cfg.Processing)
	if err != nil {
		return err
	}
	store, err := openStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	w, err := watcher.New(cfg.Watch.Extensions, debounce, logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	ctx, cancel := signalContext()
	defer cancel()

	events, err := w.Watch(ctx, dir)
	if err != nil {
		return err
	}

	logger.Info("watching directory", "dir", dir, "extensions", cfg.Watch.Extensions)
	runner := batch.New(proc, store, logger)
	for path := range events {
		stats, err := runner.ProcessFiles(ctx, []string{path}, &batch.Config{Workers: 1})
		if err != nil {
			logger.Error("processing failed", "path", path, "error", err)
			continue
		}
		if stats.FilesFailed > 0 {
			logger.Warn("file not processed", "path", path, "errors", stats.ErrorMessages)
			continue
		}
		logger.Info("processed", "path", path, "chunks", stats.ChunksCreated)
	}
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	formatName := fs.String("format", "jsonl", "export format: jsonl, json, or csv")
	output := fs.String("o", "", "output file (default <filename>_chunks.<ext>)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("export: exactly one result id required")
	}

	format, err := exporter.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	store, err := openStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	stored, err := store.GetResult(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	path := *output
	if path == "" {
		base := strings.TrimSuffix(stored.Result.FileInfo.Filename,
			filepath.Ext(stored.Result.FileInfo.Filename))
		if base == "" {
			base = stored.ID
		}
		path = base + "_chunks" + format.Extension()
	}

	if err := exporter.WriteFile(path, stored, format); err != nil {
		return err
	}
	fmt.Printf("exported %d chunks to %s\n", stored.Result.TotalChunks, path)
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogJSON)

	// stdout carries the MCP protocol; everything else goes to stderr
	logger.Info("mcp server starting", "version", version,
		"build_mode", storage.BuildMode, "driver", storage.DriverName)

	server, err := mcp.NewServer(cfg.DatabasePath, cfg.Processing)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("mcp server ready on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errChan:
		return err
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func openStore(dbPath string) (storage.Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return storage.NewSQLiteStore(dbPath)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printStats(target string, stats *batch.Statistics) {
	fmt.Printf("%s: %d processed, %d failed, %d chunks, %d tokens in %s\n",
		target, stats.FilesProcessed, stats.FilesFailed,
		stats.ChunksCreated, stats.TokensCounted, stats.Duration.Round(time.Millisecond))
	for _, msg := range stats.ErrorMessages {
		fmt.Fprintln(os.Stderr, "  -", msg)
	}
}
