package main

import (
	"fmt"
	"io"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/di"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEvaluateCmd(flags *di.CLIFlags) *cobra.Command {
	var showErrors bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the model against the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return invokeCLI(flags, func(
				logger *zap.Logger,
				svc *core.ClassifierService,
				loader core.CorpusLoader,
				opts core.ServiceOptions,
				store core.ModelStore,
				feedback core.FeedbackRepository,
			) error {
				defer closeAll(logger, store, feedback)

				ctx := cmd.Context()
				if err := initialized(ctx, svc); err != nil {
					return err
				}

				examples, err := loader.Load(ctx, opts.DatasetPath)
				if err != nil {
					return err
				}

				result, err := svc.Evaluate(examples)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n=== Evaluation ===\n")
				fmt.Fprintf(out, "Dataset: %s\n", opts.DatasetPath)
				printEvaluation(out, result, showErrors)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showErrors, "errors", false, "List misclassified messages")
	return cmd
}

func printEvaluation(out io.Writer, result core.EvaluationResult, showErrors bool) {
	fmt.Fprintf(out, "Accuracy: %.2f%% (%d/%d)\n", result.Accuracy*100, result.Correct, result.Total)

	if !showErrors {
		return
	}
	for _, p := range result.Predictions {
		if p.ActualIsSpam == p.PredictedIsSpam {
			continue
		}
		fmt.Fprintf(out, "  [%s as %s, p=%.4f] %s\n",
			label(p.ActualIsSpam), label(p.PredictedIsSpam), p.Probability, preview(p.Text, 80))
	}
}

func label(isSpam bool) string {
	if isSpam {
		return "spam"
	}
	return "ham"
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
