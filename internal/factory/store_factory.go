package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/bayes-spam-filter/internal/adapters/store"
	"github.com/mikey/bayes-spam-filter/internal/config"
	"github.com/mikey/bayes-spam-filter/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates model stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateModelStore creates a model store based on the configuration
func (f *StoreFactory) CreateModelStore(ctx context.Context) (core.ModelStore, error) {
	storage := f.cfg.GetStorage()

	switch storage.Type {
	case "file":
		return store.NewFileStore(storage.FilePath, f.logger), nil
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(storage.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storage.SQLitePath, storage.ModelName, f.logger)
	case "mysql":
		return store.NewMySQLStore(storage.MySQLDSN, storage.ModelName, f.logger)
	case "redis":
		return store.NewRedisStore(ctx, storage.RedisURL, storage.RedisKeyPrefix, storage.ModelName, f.logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storage.Type)
	}
}
