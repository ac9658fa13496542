package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/di"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	flags := &di.CLIFlags{}

	rootCmd := &cobra.Command{
		Use:   "spam-classifier",
		Short: "Naive Bayes spam filter",
		Long: `spam-classifier trains a multinomial Naive Bayes model on a labeled
corpus of spam and ham messages and uses it to score new messages.

It can run as a Postfix content filter (serve) or score, train and
inspect models from the command line.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	pf.StringVar(&flags.DatasetPath, "dataset", "", "Dataset root containing spam/ and ham/ directories")
	pf.StringVar(&flags.StorageType, "storage", "", "Model storage type (file, sqlite, mysql, redis, memory)")
	pf.StringVar(&flags.ModelPath, "model", "", "Model file path for file storage")
	pf.Float64Var(&flags.Threshold, "threshold", 0, "Spam probability threshold")
	pf.Float64Var(&flags.SmoothingK, "smoothing", 0, "Additive smoothing constant k")

	rootCmd.AddCommand(
		newServeCmd(flags),
		newTrainCmd(flags),
		newEvaluateCmd(flags),
		newPredictCmd(flags),
		newReportCmd(flags),
		newStatsCmd(flags),
		newConfigCmd(flags),
	)

	return rootCmd
}

// invokeCLI builds the CLI container and runs fn with its dependencies injected
func invokeCLI(flags *di.CLIFlags, fn any) error {
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}
	return container.Invoke(fn)
}

// closeAll releases the persistence handles
func closeAll(logger *zap.Logger, store core.ModelStore, feedback core.FeedbackRepository) {
	if err := store.Close(); err != nil {
		logger.Error("Failed to close model store", zap.Error(err))
	}
	if err := feedback.Close(); err != nil {
		logger.Error("Failed to close feedback repository", zap.Error(err))
	}
	_ = logger.Sync()
}

// readInput returns the text given as arguments, the content of file, or stdin
func readInput(args []string, file string, stdin io.Reader) ([]byte, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		return data, nil
	case len(args) > 0:
		return []byte(strings.Join(args, " ")), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
}

func initialized(ctx context.Context, svc *core.ClassifierService) error {
	svc.Initialize(ctx)
	if !svc.IsTrained() {
		return core.ErrModelNotTrained
	}
	return nil
}
