package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/mikey/bayes-spam-filter/internal/core"
)

// MemoryStore keeps the encoded model in memory. Models go through the same
// codec as the durable stores, so a loaded model never aliases a saved one.
type MemoryStore struct {
	mu      sync.RWMutex
	payload []byte
}

// NewMemoryStore creates a new in-memory model store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores the encoded model
func (s *MemoryStore) Save(ctx context.Context, model *core.Model) error {
	data, err := EncodeModel(model)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = data
	return nil
}

// Load decodes the stored model
func (s *MemoryStore) Load(ctx context.Context) (*core.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.payload == nil {
		return nil, core.ErrModelNotFound
	}
	return DecodeModel(s.payload)
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
