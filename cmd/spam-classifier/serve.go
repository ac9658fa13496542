package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/di"
	"github.com/mikey/bayes-spam-filter/internal/ports"
	"github.com/mikey/bayes-spam-filter/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(flags *di.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the mail content filter",
		Long: `Load (or auto-train) the model and run the configured message filter
until SIGINT or SIGTERM. When training.schedule is set the model is
periodically retrained from the corpus and reported messages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := di.BuildContainer(flags.ConfigFile)
			if err != nil {
				return fmt.Errorf("failed to build dependency container: %w", err)
			}
			return container.Invoke(run)
		},
	}
}

// run is the server entry point; all dependencies are injected
func run(
	logger *zap.Logger,
	svc *core.ClassifierService,
	messageFilter ports.MessageFilter,
	sched *scheduler.Scheduler,
	store core.ModelStore,
	feedback core.FeedbackRepository,
) error {
	defer closeAll(logger, store, feedback)

	svc.Initialize(context.Background())
	if !svc.IsTrained() {
		logger.Warn("Classifier is not trained, every message will score 0.5")
	}

	if err := messageFilter.Start(); err != nil {
		logger.Error("Failed to start filter", zap.Error(err))
		return err
	}
	if err := sched.Start(); err != nil {
		messageFilter.Stop()
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	sched.Stop()
	if err := messageFilter.Stop(); err != nil {
		logger.Error("Failed to stop filter", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}
