package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/bayes-spam-filter/internal/core"
	"go.uber.org/zap"
)

// Dialect selects the SQL driver and schema
type Dialect string

const (
	DialectSQLite Dialect = "sqlite3"
	DialectMySQL  Dialect = "mysql"
)

// SQLRepository stores reported examples in a SQL table
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// NewSQLRepository opens dsn with the dialect's driver and creates the
// feedback table if needed
func NewSQLRepository(dialect Dialect, dsn string, logger *zap.Logger) (*SQLRepository, error) {
	var schema string
	switch dialect {
	case DialectSQLite:
		schema = `
			CREATE TABLE IF NOT EXISTS feedback_examples (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				text TEXT NOT NULL,
				is_spam BOOLEAN NOT NULL,
				reported_at TIMESTAMP
			)
		`
	case DialectMySQL:
		schema = `
			CREATE TABLE IF NOT EXISTS feedback_examples (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				text LONGTEXT NOT NULL,
				is_spam BOOLEAN NOT NULL,
				reported_at TIMESTAMP
			)
		`
	default:
		return nil, fmt.Errorf("unsupported feedback dialect: %s", dialect)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open feedback database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to feedback database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLRepository{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}, nil
}

// Add stores one reported example
func (r *SQLRepository) Add(ctx context.Context, example core.TrainingExample) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feedback_examples (text, is_spam, reported_at)
		VALUES (?, ?, ?)
	`, example.Text, example.IsSpam, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}

	r.logger.Debug("Feedback stored",
		zap.String("dialect", string(r.dialect)),
		zap.Bool("is_spam", example.IsSpam))
	return nil
}

// List returns every reported example in insertion order
func (r *SQLRepository) List(ctx context.Context) ([]core.TrainingExample, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT text, is_spam FROM feedback_examples ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var examples []core.TrainingExample
	for rows.Next() {
		var example core.TrainingExample
		if err := rows.Scan(&example.Text, &example.IsSpam); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		examples = append(examples, example)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feedback rows: %w", err)
	}
	return examples, nil
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	return r.db.Close()
}
