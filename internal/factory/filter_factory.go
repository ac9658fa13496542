package factory

import (
	"fmt"
	"os"

	"github.com/mikey/bayes-spam-filter/internal/adapters/filter"
	"github.com/mikey/bayes-spam-filter/internal/config"
	"github.com/mikey/bayes-spam-filter/internal/ports"
	"github.com/mikey/bayes-spam-filter/internal/utils"
	"github.com/mikey/bayes-spam-filter/internal/whitelist"
	"go.uber.org/zap"
)

// FilterFactory creates message filters based on configuration
type FilterFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	analyzer      ports.MessageAnalyzer
	whitelist     *whitelist.Checker
	textProcessor *utils.TextProcessor
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(
	cfg *config.Config,
	logger *zap.Logger,
	analyzer ports.MessageAnalyzer,
	checker *whitelist.Checker,
	textProcessor *utils.TextProcessor,
) *FilterFactory {
	return &FilterFactory{
		cfg:           cfg,
		logger:        logger,
		analyzer:      analyzer,
		whitelist:     checker,
		textProcessor: textProcessor,
	}
}

// CreateMessageFilter creates a message filter based on the configuration
func (f *FilterFactory) CreateMessageFilter() (ports.MessageFilter, error) {
	server := f.cfg.GetServer()
	threshold := f.cfg.GetSpam().Threshold

	switch server.FilterType {
	case "smtp", "postfix":
		return filter.NewPostfixFilter(f.analyzer, f.whitelist, f.textProcessor, f.logger, filter.PostfixOptions{
			ListenAddr:    server.ListenAddress,
			Threshold:     threshold,
			BlockSpam:     server.BlockSpam,
			SpamHeader:    server.SpamHeader,
			ScoreHeader:   server.ScoreHeader,
			ReasonHeader:  server.ReasonHeader,
			RelayEnabled:  server.RelayEnabled,
			RelayAddr:     server.RelayAddress,
			RelayPort:     server.RelayPort,
			SubjectPrefix: server.SubjectPrefix,
			ModifySubject: server.ModifySubject,
			MaxBodySize:   server.MaxBodySize,
		}), nil
	case "cli":
		return filter.NewCliFilter(f.analyzer, os.Stdout, f.logger, threshold, f.cfg.GetBool("cli.verbose")), nil
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", server.FilterType)
	}
}
