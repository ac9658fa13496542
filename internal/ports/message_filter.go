package ports

import (
	"context"

	"github.com/mikey/bayes-spam-filter/internal/core"
)

// MessageAnalyzer scores a message against a spam threshold
type MessageAnalyzer interface {
	// Analyze never fails; an untrained classifier yields a neutral score
	Analyze(ctx context.Context, msg *core.Message, threshold float64) *core.SpamAnalysisResult
}

// MessageFilter defines the interface for message filtering front ends
type MessageFilter interface {
	// ProcessMessage processes a message and returns the filtering result
	ProcessMessage(ctx context.Context, msg *core.Message) (*core.SpamAnalysisResult, error)

	// Start starts the filter service
	Start() error

	// Stop stops the filter service
	Stop() error
}
