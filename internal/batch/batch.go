// Package batch processes many files concurrently through the text
// pipeline, persisting each result and collecting per-file failures
// without aborting the run.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/textstitch/textstitch/internal/classifier"
	"github.com/textstitch/textstitch/internal/logging"
	"github.com/textstitch/textstitch/internal/processor"
	"github.com/textstitch/textstitch/internal/storage"
)

// Runner coordinates the batch pipeline: extract -> process -> store
type Runner struct {
	processor *processor.Processor
	store     storage.Store
	logger    *log.Logger

	// Worker pool configuration
	workers int
}

// Config contains configuration for a batch run
type Config struct {
	Workers    int      // Number of concurrent workers (default: runtime.NumCPU())
	Extensions []string // Extension filter for directory walks; empty means all files
}

// Statistics contains statistics about one batch run
type Statistics struct {
	FilesProcessed int
	FilesFailed    int
	// Chunk and token tallies are int64: large corpora overflow 32 bits
	ChunksCreated int64
	TokensCounted int64
	ResultIDs      []string
	Duration       time.Duration
	ErrorMessages  []string
}

// New creates a Runner. store may be nil, in which case results are
// processed but not persisted (dry runs).
func New(p *processor.Processor, store storage.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{
		processor: p,
		store:     store,
		logger:    logger,
		workers:   runtime.NumCPU(),
	}
}

// ProcessFiles runs the pipeline over each path concurrently. Per-file
// failures are recorded in the statistics; only context cancellation
// aborts the whole batch.
func (r *Runner) ProcessFiles(ctx context.Context, paths []string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{}
	}
	workers := config.Workers
	if workers <= 0 {
		workers = r.workers
	}

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	semaphore := make(chan struct{}, workers)

	var (
		processed int32
		failed    int32
		chunks    int64
		tokens    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protects stats.ErrorMessages and stats.ResultIDs

	for _, path := range paths {
		g.Go(func() error {
			select {
			case semaphore <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-semaphore }()

			result, err := r.processor.ProcessFile(path)
			if err != nil {
				atomic.AddInt32(&failed, 1)
				mu.Lock()
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", path, err))
				mu.Unlock()
				r.logger.Warn("file failed", "path", path, "err", err)
				return nil // Per-file failure, keep going
			}

			if r.store != nil {
				id, err := r.store.SaveResult(gctx, result)
				if err != nil {
					atomic.AddInt32(&failed, 1)
					mu.Lock()
					stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: save: %v", path, err))
					mu.Unlock()
					r.logger.Warn("save failed", "path", path, "err", err)
					return nil
				}
				mu.Lock()
				stats.ResultIDs = append(stats.ResultIDs, id)
				mu.Unlock()
			}

			atomic.AddInt32(&processed, 1)
			atomic.AddInt64(&chunks, int64(result.TotalChunks))
			atomic.AddInt64(&tokens, int64(result.TotalTokens))
			r.logger.Debug("file processed", "path", path, "chunks", result.TotalChunks, "tokens", result.TotalTokens)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.FilesProcessed = int(processed)
	stats.FilesFailed = int(failed)
	stats.ChunksCreated = chunks
	stats.TokensCounted = tokens
	stats.Duration = time.Since(startTime)

	r.logger.Info("batch complete",
		"processed", stats.FilesProcessed,
		"failed", stats.FilesFailed,
		"chunks", stats.ChunksCreated,
		"duration", stats.Duration)

	return stats, nil
}

// ProcessDirectory walks root and processes every matching file
func (r *Runner) ProcessDirectory(ctx context.Context, root string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{}
	}

	files, err := discoverFiles(root, config.Extensions)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	r.logger.Info("starting batch", "root", root, "files", len(files))
	return r.ProcessFiles(ctx, files, config)
}

// discoverFiles finds files under root, skipping hidden directories.
// extensions is a normalized-extension allowlist; empty allows all.
func discoverFiles(root string, extensions []string) ([]string, error) {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[classifier.Normalize(ext)] = struct{}{}
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if len(allowed) > 0 {
			ext := classifier.Normalize(filepath.Ext(path))
			if _, ok := allowed[ext]; !ok {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}
