package main

import (
	"context"
	"fmt"
	"io"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/di"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTrainCmd(flags *di.CLIFlags) *cobra.Command {
	var split float64

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the model from the dataset",
		Long: `Train a new model from the spam/ and ham/ directories under the dataset
root and persist it. With --split, only that fraction of the messages is
used for training and the rest is used to report accuracy.`,
		Args: cobra.NoArgs,
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
				return train(cmd.Context(), out, svc, loader, opts, split)
			})
		},
	}

	cmd.Flags().Float64Var(&split, "split", 0, "Train fraction in (0, 1); the rest is held out for evaluation")
	return cmd
}

func train(ctx context.Context, out io.Writer, svc *core.ClassifierService, loader core.CorpusLoader, opts core.ServiceOptions, split float64) error {
	examples, err := loader.Load(ctx, opts.DatasetPath)
	if err != nil {
		return err
	}

	trainSet, testSet := examples, []core.TrainingExample(nil)
	if split != 0 {
		trainSet, testSet, err = core.TrainTestSplit(examples, split, nil)
		if err != nil {
			return err
		}
	}

	if err := svc.Train(ctx, trainSet); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	if !opts.SaveOnTrain {
		if err := svc.Save(ctx); err != nil {
			return fmt.Errorf("failed to save model: %w", err)
		}
	}

	model := svc.Model()
	fmt.Fprintf(out, "\n=== Training ===\n")
	fmt.Fprintf(out, "Dataset: %s\n", opts.DatasetPath)
	fmt.Fprintf(out, "Training messages: %d (spam %d, ham %d)\n", len(trainSet), model.Spam.MessageCount, model.Ham.MessageCount)
	fmt.Fprintf(out, "Vocabulary size: %d\n", model.VocabularySize())

	if len(testSet) > 0 {
		result, err := svc.Evaluate(testSet)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n=== Hold-out evaluation ===\n")
		printEvaluation(out, result, false)
	}
	return nil
}
