package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/bayes-spam-filter/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore keeps the model as a JSON document in a SQLite table
type SQLiteStore struct {
	db     *sql.DB
	name   string
	logger *zap.Logger
}

// NewSQLiteStore opens (and if needed creates) the model table in dbPath.
// name identifies the model row, so several models can share a database.
func NewSQLiteStore(dbPath, name string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS classifier_models (
			name TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		name:   name,
		logger: logger,
	}, nil
}

// Save replaces the stored model
func (s *SQLiteStore) Save(ctx context.Context, model *core.Model) error {
	data, err := EncodeModel(model)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO classifier_models (name, payload, updated_at)
		VALUES (?, ?, ?)
	`, s.name, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: failed to write model row: %v", core.ErrPersistenceWrite, err)
	}

	s.logger.Debug("Model written to SQLite", zap.String("name", s.name), zap.Int("bytes", len(data)))
	return nil
}

// Load reads and validates the stored model
func (s *SQLiteStore) Load(ctx context.Context) (*core.Model, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM classifier_models WHERE name = ?
	`, s.name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no row for model %q", core.ErrModelNotFound, s.name)
		}
		return nil, fmt.Errorf("failed to query model: %w", err)
	}

	return DecodeModel([]byte(payload))
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
