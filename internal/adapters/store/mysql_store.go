package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/bayes-spam-filter/internal/core"
	"go.uber.org/zap"
)

// MySQLStore keeps the model as a JSON document in a MySQL table
type MySQLStore struct {
	db     *sql.DB
	name   string
	logger *zap.Logger
}

// NewMySQLStore connects to dsn and creates the model table if needed
func NewMySQLStore(dsn, name string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS classifier_models (
			name VARCHAR(255) PRIMARY KEY,
			payload LONGTEXT NOT NULL,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		name:   name,
		logger: logger,
	}, nil
}

// Save replaces the stored model
func (s *MySQLStore) Save(ctx context.Context, model *core.Model) error {
	data, err := EncodeModel(model)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO classifier_models (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			payload = VALUES(payload),
			updated_at = VALUES(updated_at)
	`, s.name, string(data), time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return fmt.Errorf("%w: failed to write model row: %v", core.ErrPersistenceWrite, err)
	}

	s.logger.Debug("Model written to MySQL", zap.String("name", s.name), zap.Int("bytes", len(data)))
	return nil
}

// Load reads and validates the stored model
func (s *MySQLStore) Load(ctx context.Context) (*core.Model, error) {
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
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
