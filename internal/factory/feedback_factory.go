package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/bayes-spam-filter/internal/adapters/feedback"
	"github.com/mikey/bayes-spam-filter/internal/config"
	"github.com/mikey/bayes-spam-filter/internal/core"
	"go.uber.org/zap"
)

// FeedbackFactory creates feedback repositories based on configuration
type FeedbackFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFeedbackFactory creates a new feedback factory
func NewFeedbackFactory(cfg *config.Config, logger *zap.Logger) *FeedbackFactory {
	return &FeedbackFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFeedbackRepository creates a feedback repository based on the configuration
func (f *FeedbackFactory) CreateFeedbackRepository(ctx context.Context) (core.FeedbackRepository, error) {
	fb := f.cfg.GetFeedback()

	switch fb.Type {
	case "memory":
		return feedback.NewMemoryRepository(), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(fb.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return feedback.NewSQLRepository(feedback.DialectSQLite, fb.SQLitePath, f.logger)
	case "mysql":
		return feedback.NewSQLRepository(feedback.DialectMySQL, fb.MySQLDSN, f.logger)
	case "redis":
		return feedback.NewRedisRepository(ctx, fb.RedisURL, fb.RedisKeyPrefix, f.logger)
	default:
		return nil, fmt.Errorf("unsupported feedback type: %s", fb.Type)
	}
}
