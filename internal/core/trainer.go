package core

import (
	"fmt"

	"go.uber.org/zap"
)

// Trainer builds multinomial Naive Bayes models from labeled examples
type Trainer struct {
	tokenizer  *Tokenizer
	smoothingK float64
	logger     *zap.Logger
}

// NewTrainer creates a new trainer with additive smoothing constant k
func NewTrainer(tokenizer *Tokenizer, smoothingK float64, logger *zap.Logger) (*Trainer, error) {
	if smoothingK <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSmoothing, smoothingK)
	}
	return &Trainer{
		tokenizer:  tokenizer,
		smoothingK: smoothingK,
		logger:     logger,
	}, nil
}

// Tokenizer returns the tokenizer used for training
func (t *Trainer) Tokenizer() *Tokenizer {
	return t.tokenizer
}

// Train counts tokens per class over all examples and returns a new trained model.
// Nothing is shared with any previous model.
func (t *Trainer) Train(examples []TrainingExample) (*Model, error) {
	if len(examples) == 0 {
		t.logger.Error("Training failed: received empty list of messages")
		return nil, ErrEmptyTrainingSet
	}

	t.logger.Info("Starting training", zap.Int("messages", len(examples)))

	model := &Model{
		SmoothingK: t.smoothingK,
		Spam:       newClassStatistics(),
		Ham:        newClassStatistics(),
		Vocabulary: make(map[string]struct{}),
	}

	for _, ex := range examples {
		stats := &model.Ham
		if ex.IsSpam {
			stats = &model.Spam
		}

		stats.MessageCount++
		for _, token := range t.tokenizer.Tokenize(ex.Text) {
			stats.WordCounts[token]++
			stats.TotalWordCount++
			model.Vocabulary[token] = struct{}{}
		}
	}

	if model.Spam.MessageCount == 0 && model.Ham.MessageCount == 0 {
		t.logger.Error("Training failed: no valid spam or ham messages found")
		return nil, ErrNoValidExamples
	}
	if model.Spam.MessageCount == 0 {
		t.logger.Warn("Training completed without any spam messages")
	}
	if model.Ham.MessageCount == 0 {
		t.logger.Warn("Training completed without any ham messages")
	}
	if len(model.Vocabulary) == 0 {
		t.logger.Warn("Training completed with an empty vocabulary",
			zap.Int("min_token_length", t.tokenizer.MinLength()))
	}

	model.Trained = true

	t.logger.Info("Training complete",
		zap.Int("spam_messages", model.Spam.MessageCount),
		zap.Int("ham_messages", model.Ham.MessageCount),
		zap.Int("vocabulary_size", len(model.Vocabulary)))

	return model, nil
}
