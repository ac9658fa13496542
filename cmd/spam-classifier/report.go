package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/di"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReportCmd(flags *di.CLIFlags) *cobra.Command {
	var (
		asSpam bool
		asHam  bool
		file   string
	)

	cmd := &cobra.Command{
		Use:   "report --spam|--ham [text]",
		Short: "Report a misclassified message and retrain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asSpam == asHam {
				return errors.New("exactly one of --spam or --ham must be given")
			}

			raw, err := readInput(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			text := strings.TrimSpace(string(raw))
			if text == "" {
				return errors.New("nothing to report")
			}

			out := cmd.OutOrStdout()
			return invokeCLI(flags, func(
				logger *zap.Logger,
				svc *core.ClassifierService,
				store core.ModelStore,
				feedback core.FeedbackRepository,
			) error {
				defer closeAll(logger, store, feedback)

				ctx := cmd.Context()
				svc.Initialize(ctx)

				before := svc.Predict(text)
				if err := svc.Report(ctx, text, asSpam); err != nil {
					return fmt.Errorf("failed to report message: %w", err)
				}
				after := svc.Predict(text)

				fmt.Fprintf(out, "Reported as %s\n", label(asSpam))
				fmt.Fprintf(out, "Spam probability: %.4f -> %.4f\n", before, after)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asSpam, "spam", false, "Report the message as spam")
	cmd.Flags().BoolVar(&asHam, "ham", false, "Report the message as ham")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the message from a file")
	return cmd
}
