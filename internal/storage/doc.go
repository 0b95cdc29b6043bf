// Package storage provides SQLite-based persistence for processing results.
//
// The storage layer manages:
//   - Processing results (totals, timing, file info, metadata)
//   - The ordered chunks belonging to each result
//   - Schema migrations
//
// # Database Schema
//
// Tables:
//   - results: one row per processing run, keyed by a UUID
//   - chunks: one row per chunk, cascade-deleted with its result
//   - schema_version: applied migration versions
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStore("~/.textstitch/results.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	id, err := store.SaveResult(ctx, result)
//	stored, err := store.GetResult(ctx, id)
//
// SaveResult writes the result row and all chunk rows in a single
// transaction, so a stored result is always complete or absent.
//
// # Retention
//
// DeleteOlderThan sweeps results created before a cutoff:
//
//	n, err := store.DeleteOlderThan(ctx, time.Now().AddDate(0, 0, -30))
//
// # Drivers
//
// Two SQLite drivers are selected by build tags (see build_cgo.go and
// build_purego.go): mattn/go-sqlite3 when CGO is available, and the
// pure Go modernc.org/sqlite otherwise. The schema and queries are
// identical under both.
package storage
