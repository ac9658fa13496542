package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"go.uber.org/zap"
)

// FileStore keeps the model as a JSON document on the local filesystem
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a new file-backed model store
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Save writes the model next to its final location and renames it into place
func (s *FileStore) Save(ctx context.Context, model *core.Model) error {
	data, err := EncodeModel(model)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", core.ErrPersistenceWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}

	s.logger.Debug("Model written", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}

// Load reads and validates the model file
func (s *FileStore) Load(ctx context.Context) (*core.Model, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrModelNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", core.ErrCorruptModel, s.path, err)
	}

	model, err := DecodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return model, nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error {
	return nil
}
