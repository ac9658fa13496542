package core

import (
	"context"
)

// ModelStore persists and restores trained models
type ModelStore interface {
	// Save writes the model, replacing any previous copy
	Save(ctx context.Context, model *Model) error

	// Load reads the model; ErrModelNotFound or ErrCorruptModel on failure
	Load(ctx context.Context) (*Model, error)

	// Close releases the underlying resources
	Close() error
}

// CorpusLoader reads labeled examples from a dataset location
type CorpusLoader interface {
	// Load returns the examples in random order
	Load(ctx context.Context, root string) ([]TrainingExample, error)
}

// FeedbackRepository stores examples reported by users
type FeedbackRepository interface {
	// Add stores one reported example
	Add(ctx context.Context, example TrainingExample) error

	// List returns every stored example in insertion order
	List(ctx context.Context) ([]TrainingExample, error)

	// Close releases the underlying resources
	Close() error
}
