package main

import (
	"fmt"
	"io"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/di"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStatsCmd(flags *di.CLIFlags) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show model statistics and the most telling tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return invokeCLI(flags, func(
				logger *zap.Logger,
				svc *core.ClassifierService,
				store core.ModelStore,
				feedback core.FeedbackRepository,
			) error {
				defer closeAll(logger, store, feedback)

				if err := initialized(cmd.Context(), svc); err != nil {
					return err
				}
				printInfo(out, svc.Info(top))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "Number of top tokens per class")
	return cmd
}

func printInfo(out io.Writer, info core.ModelInfo) {
	fmt.Fprintf(out, "\n=== Model ===\n")
	fmt.Fprintf(out, "Smoothing k: %g\n", info.SmoothingK)
	fmt.Fprintf(out, "Spam messages: %d (%d tokens)\n", info.SpamMessages, info.SpamWords)
	fmt.Fprintf(out, "Ham messages: %d (%d tokens)\n", info.HamMessages, info.HamWords)
	fmt.Fprintf(out, "Vocabulary size: %d\n", info.VocabularySize)

	printTokens(out, "Top spam tokens", info.TopSpamTokens)
	printTokens(out, "Top ham tokens", info.TopHamTokens)
}

func printTokens(out io.Writer, title string, tokens []core.TokenWeight) {
	if len(tokens) == 0 {
		return
	}
	fmt.Fprintf(out, "\n=== %s ===\n", title)
	for _, t := range tokens {
		fmt.Fprintf(out, "%-24s spam=%-6d ham=%-6d log-ratio=%+.3f\n", t.Token, t.SpamCount, t.HamCount, t.LogRatio)
	}
}
