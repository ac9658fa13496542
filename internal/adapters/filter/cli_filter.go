package filter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/ports"
	"go.uber.org/zap"
)

// CliFilter scores single messages from the command line and prints the verdict
type CliFilter struct {
	analyzer  ports.MessageAnalyzer
	out       io.Writer
	logger    *zap.Logger
	threshold float64
	verbose   bool
}

// NewCliFilter creates a new CLI filter writing its report to out
func NewCliFilter(analyzer ports.MessageAnalyzer, out io.Writer, logger *zap.Logger, threshold float64, verbose bool) *CliFilter {
	return &CliFilter{
		analyzer:  analyzer,
		out:       out,
		logger:    logger,
		threshold: threshold,
		verbose:   verbose,
	}
}

// ProcessMessage scores msg and prints a summary and the result
func (f *CliFilter) ProcessMessage(ctx context.Context, msg *core.Message) (*core.SpamAnalysisResult, error) {
	f.logger.Debug("Processing message", zap.String("sender", msg.From))

	fmt.Fprintf(f.out, "\n=== Message Summary ===\n")
	if msg.From != "" {
		fmt.Fprintf(f.out, "From: %s\n", msg.From)
	}
	if len(msg.To) > 0 {
		fmt.Fprintf(f.out, "To: %s\n", strings.Join(msg.To, ", "))
	}
	fmt.Fprintf(f.out, "Subject: %s\n", msg.Subject)
	fmt.Fprintf(f.out, "Body length: %d bytes\n", len(msg.Body))

	if f.verbose {
		preview := msg.Body
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Fprintf(f.out, "\nBody preview:\n%s\n", preview)
	}

	start := time.Now()
	result := f.analyzer.Analyze(ctx, msg, f.threshold)
	duration := time.Since(start)

	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Is spam: %t\n", result.IsSpam)
	fmt.Fprintf(f.out, "Spam probability: %.4f\n", result.Score)
	fmt.Fprintf(f.out, "Threshold: %.2f\n", f.threshold)
	fmt.Fprintf(f.out, "Explanation: %s\n", result.Explanation)
	fmt.Fprintf(f.out, "Model used: %s\n", result.ModelUsed)
	if f.verbose {
		fmt.Fprintf(f.out, "Processing ID: %s\n", result.ProcessingID)
		fmt.Fprintf(f.out, "Processing time: %v\n", duration)
	}

	return result, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}

// ParseMessage reads a message from raw bytes. Input with mail headers is
// parsed as RFC 5322, anything else becomes the body of a message without
// headers.
func ParseMessage(raw []byte) *core.Message {
	content := string(raw)
	if parsed, err := parseMailMessage(raw); err == nil && parsed != nil {
		return parsed
	}
	return &core.Message{Body: strings.TrimSpace(content)}
}
