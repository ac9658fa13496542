package main

import (
	"github.com/mikey/bayes-spam-filter/internal/adapters/filter"
	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/di"
	"github.com/mikey/bayes-spam-filter/internal/ports"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPredictCmd(flags *di.CLIFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "predict [text]",
		Short: "Score a message",
		Long: `Score a message given as arguments, read from --file, or read from stdin.
Input starting with mail headers is parsed as an RFC 5322 message.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return invokeCLI(flags, func(
				logger *zap.Logger,
				svc *core.ClassifierService,
				messageFilter ports.MessageFilter,
				store core.ModelStore,
				feedback core.FeedbackRepository,
			) error {
				defer closeAll(logger, store, feedback)

				ctx := cmd.Context()
				svc.Initialize(ctx)
				if !svc.IsTrained() {
					logger.Warn("Classifier is not trained, the score is neutral")
				}

				_, err := messageFilter.ProcessMessage(ctx, filter.ParseMessage(raw))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the message from a file")
	return cmd
}
