package feedback

import (
	"context"
	"sync"

	"github.com/mikey/bayes-spam-filter/internal/core"
)

// MemoryRepository keeps reported examples in memory only
type MemoryRepository struct {
	mu       sync.RWMutex
	examples []core.TrainingExample
}

// NewMemoryRepository creates a new in-memory feedback repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Add stores one reported example
func (r *MemoryRepository) Add(ctx context.Context, example core.TrainingExample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.examples = append(r.examples, example)
	return nil
}

// List returns a copy of the reported examples
func (r *MemoryRepository) List(ctx context.Context) ([]core.TrainingExample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]core.TrainingExample(nil), r.examples...), nil
}

// Close is a no-op for the memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
