package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/textstitch/textstitch/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResult persists a processing result with all its chunks in one
// transaction and returns the generated result ID.
func (s *SQLiteStore) SaveResult(ctx context.Context, result *types.ProcessingResult) (string, error) {
	if result == nil {
		return "", errors.New("nil result")
	}

	metadata, err := json.Marshal(result.Metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode result metadata: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.NewString()
	now := time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO results (id, filename, format, size_bytes, original_length,
		                     total_chunks, total_tokens, total_characters,
		                     processing_time, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, result.FileInfo.Filename, result.FileInfo.Format,
		result.FileInfo.SizeBytes, result.FileInfo.OriginalLength,
		result.TotalChunks, result.TotalTokens, result.TotalCharacters,
		result.ProcessingTime, string(metadata), now)
	if err != nil {
		return "", fmt.Errorf("failed to save result: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (result_id, chunk_index, content, token_count,
		                    start_position, end_position, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer func() { _ = stmt.Close() }()

	for _, chunk := range result.Chunks {
		chunkMeta, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return "", fmt.Errorf("failed to encode chunk %d metadata: %w", chunk.Index, err)
		}
		if _, err := stmt.ExecContext(ctx,
			id, chunk.Index, chunk.Text, chunk.TokenCount,
			chunk.StartPosition, chunk.EndPosition, string(chunkMeta)); err != nil {
			return "", fmt.Errorf("failed to save chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit result: %w", err)
	}
	return id, nil
}

// GetResult loads a stored result and all its chunks
func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*StoredResult, error) {
	var (
		stored   StoredResult
		metadata sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, filename, format, size_bytes, original_length,
		       total_chunks, total_tokens, total_characters,
		       processing_time, metadata, created_at
		FROM results
		WHERE id = ?
	`, id).Scan(
		&stored.ID, &stored.Result.FileInfo.Filename, &stored.Result.FileInfo.Format,
		&stored.Result.FileInfo.SizeBytes, &stored.Result.FileInfo.OriginalLength,
		&stored.Result.TotalChunks, &stored.Result.TotalTokens, &stored.Result.TotalCharacters,
		&stored.Result.ProcessingTime, &metadata, &stored.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &stored.Result.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode result metadata: %w", err)
		}
	}

	chunks, err := s.ListChunks(ctx, id)
	if err != nil {
		return nil, err
	}
	stored.Result.Chunks = chunks

	return &stored, nil
}

// ListChunks returns the ordered chunks of one result
func (s *SQLiteStore) ListChunks(ctx context.Context, resultID string) ([]types.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_index, content, token_count, start_position, end_position, metadata
		FROM chunks
		WHERE result_id = ?
		ORDER BY chunk_index
	`, resultID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chunks []types.Chunk
	for rows.Next() {
		var (
			chunk    types.Chunk
			metadata sql.NullString
		)
		if err := rows.Scan(&chunk.Index, &chunk.Text, &chunk.TokenCount,
			&chunk.StartPosition, &chunk.EndPosition, &metadata); err != nil {
			return nil, err
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode chunk %d metadata: %w", chunk.Index, err)
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// ListResults returns result summaries ordered newest first. limit <= 0
// means no limit.
func (s *SQLiteStore) ListResults(ctx context.Context, limit, offset int) ([]ResultSummary, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats negative LIMIT as unlimited
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, format, total_chunks, total_tokens, created_at
		FROM results
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var summaries []ResultSummary
	for rows.Next() {
		var sm ResultSummary
		if err := rows.Scan(&sm.ID, &sm.Filename, &sm.Format,
			&sm.TotalChunks, &sm.TotalTokens, &sm.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}

// DeleteResult removes a result and, via cascade, its chunks
func (s *SQLiteStore) DeleteResult(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOlderThan removes all results created before cutoff
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep old results: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
