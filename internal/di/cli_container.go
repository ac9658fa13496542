package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/bayes-spam-filter/internal/config"
	"github.com/mikey/bayes-spam-filter/internal/logging"
)

// CLIFlags contains the command line flags shared by all commands.
// Zero values leave the configured setting untouched.
type CLIFlags struct {
	ConfigFile  string
	Verbose     bool
	JSONLog     bool
	DatasetPath string
	StorageType string
	ModelPath   string
	Threshold   float64
	SmoothingK  float64
}

// BuildCLIContainer creates a container for one-shot commands. Logs go to
// the console and flags override the configuration.
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.New(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideComponents(container); err != nil {
		return nil, err
	}
	return container, nil
}

// applyFlags copies the non-zero flags over the configuration
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	cfg.Set("server.filter_type", "cli")
	cfg.Set("cli.verbose", flags.Verbose)

	if flags.DatasetPath != "" {
		cfg.Set("classifier.dataset_path", flags.DatasetPath)
	}
	if flags.StorageType != "" {
		cfg.Set("storage.type", flags.StorageType)
	}
	if flags.ModelPath != "" {
		cfg.Set("storage.file_path", flags.ModelPath)
	}
	if flags.Threshold > 0 {
		cfg.Set("spam.threshold", flags.Threshold)
	}
	if flags.SmoothingK > 0 {
		cfg.Set("classifier.smoothing_k", flags.SmoothingK)
	}
}
