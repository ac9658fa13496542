package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ModelName is reported in analysis results produced by the classifier
const ModelName = "naive-bayes"

// ServiceOptions controls start-up and persistence behaviour
type ServiceOptions struct {
	DatasetPath string
	AutoTrain   bool
	SaveOnTrain bool
}

// ClassifierService owns the live model and is the only entry point for
// prediction, training and evaluation.
type ClassifierService struct {
	trainer   *Trainer
	predictor *Predictor
	store     ModelStore
	loader    CorpusLoader
	feedback  FeedbackRepository
	opts      ServiceOptions
	logger    *zap.Logger

	model atomic.Pointer[Model]

	// trainMu serializes model replacement
	trainMu sync.Mutex
	// trained is the explicit training set, nil for corpus-based models
	trained []TrainingExample
	corpus  []TrainingExample

	initOnce sync.Once
}

// NewClassifierService creates a new classifier service.
// store, loader and feedback may be nil.
func NewClassifierService(
	trainer *Trainer,
	predictor *Predictor,
	store ModelStore,
	loader CorpusLoader,
	feedback FeedbackRepository,
	opts ServiceOptions,
	logger *zap.Logger,
) *ClassifierService {
	return &ClassifierService{
		trainer:   trainer,
		predictor: predictor,
		store:     store,
		loader:    loader,
		feedback:  feedback,
		opts:      opts,
		logger:    logger,
	}
}

// Initialize loads the persisted model, falling back to auto-training from the
// dataset. Failures leave the service untrained; it never returns an error.
// Only the first call does any work.
func (s *ClassifierService) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		if s.loadPersisted(ctx) {
			return
		}
		if !s.opts.AutoTrain {
			s.logger.Warn("No trained model available and auto-training is disabled")
			return
		}
		s.autoTrain(ctx)
	})
}

func (s *ClassifierService) loadPersisted(ctx context.Context) bool {
	if s.store == nil {
		return false
	}

	model, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrModelNotFound) {
			s.logger.Warn("Trained classifier not found, attempting auto-training")
		} else {
			s.logger.Error("Failed to load trained classifier", zap.Error(err))
		}
		return false
	}

	s.model.Store(model)
	s.logger.Info("Trained classifier loaded",
		zap.Int("spam_messages", model.Spam.MessageCount),
		zap.Int("ham_messages", model.Ham.MessageCount),
		zap.Int("vocabulary_size", model.VocabularySize()))
	return true
}

func (s *ClassifierService) autoTrain(ctx context.Context) {
	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	examples, err := s.loadCorpus(ctx, false)
	if err != nil {
		s.logger.Error("Cannot auto-train", zap.Error(err))
		return
	}
	if len(examples) == 0 {
		s.logger.Error("No messages loaded from dataset, auto-training failed",
			zap.String("dataset", s.opts.DatasetPath))
		return
	}

	if err := s.publish(ctx, examples); err != nil {
		s.logger.Error("Auto-training failed", zap.Error(err))
		return
	}
	s.logger.Info("Classifier auto-trained", zap.Int("messages", len(examples)))
}

// loadCorpus returns the dataset examples. The last read is reused unless
// refresh is set. Callers hold trainMu.
func (s *ClassifierService) loadCorpus(ctx context.Context, refresh bool) ([]TrainingExample, error) {
	if s.corpus != nil && !refresh {
		return s.corpus, nil
	}
	if s.loader == nil {
		return nil, fmt.Errorf("%w: no corpus loader configured", ErrDatasetMissing)
	}

	examples, err := s.loader.Load(ctx, s.opts.DatasetPath)
	if err != nil {
		return nil, err
	}
	s.corpus = examples
	return examples, nil
}

// Predict returns the spam probability of text
func (s *ClassifierService) Predict(text string) float64 {
	return s.predictor.Predict(s.model.Load(), text)
}

// IsTrained reports whether a trained model is live
func (s *ClassifierService) IsTrained() bool {
	m := s.model.Load()
	return m != nil && m.Trained
}

// Model returns the live model. Callers must not modify it.
func (s *ClassifierService) Model() *Model {
	return s.model.Load()
}

// Evaluate scores examples against the live model
func (s *ClassifierService) Evaluate(examples []TrainingExample) (EvaluationResult, error) {
	result, err := Evaluate(s.predictor, s.model.Load(), examples)
	if err != nil {
		s.logger.Error("Cannot evaluate", zap.Error(err))
		return result, err
	}

	s.logger.Info("Evaluation complete",
		zap.Float64("accuracy", result.Accuracy),
		zap.Int("correct", result.Correct),
		zap.Int("total", result.Total))
	return result, nil
}

// Train replaces the live model with one trained on examples.
// On error the previous model stays in place.
func (s *ClassifierService) Train(ctx context.Context, examples []TrainingExample) error {
	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	if err := s.publish(ctx, examples); err != nil {
		return err
	}
	s.trained = append([]TrainingExample(nil), examples...)
	return nil
}

// publish trains a model on examples and makes it live
func (s *ClassifierService) publish(ctx context.Context, examples []TrainingExample) error {
	model, err := s.trainer.Train(examples)
	if err != nil {
		return err
	}

	s.model.Store(model)
	if s.opts.SaveOnTrain {
		s.persist(ctx, model)
	}
	return nil
}

// persist writes model to the store; failures are logged only
func (s *ClassifierService) persist(ctx context.Context, model *Model) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, model); err != nil {
		s.logger.Error("Failed to save trained classifier", zap.Error(err))
		return
	}
	s.logger.Info("Trained classifier saved")
}

// Save writes the live model to the store
func (s *ClassifierService) Save(ctx context.Context) error {
	model := s.model.Load()
	if model == nil || !model.Trained {
		return ErrModelNotTrained
	}
	if s.store == nil {
		return fmt.Errorf("%w: no model store configured", ErrPersistenceWrite)
	}
	return s.store.Save(ctx, model)
}

// Report records a user-labeled message and retrains the model with it
func (s *ClassifierService) Report(ctx context.Context, text string, isSpam bool) error {
	example := TrainingExample{Text: text, IsSpam: isSpam}

	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	if s.feedback != nil {
		if err := s.feedback.Add(ctx, example); err != nil {
			return fmt.Errorf("failed to store feedback: %w", err)
		}
		return s.retrainLocked(ctx, false)
	}

	// Without a feedback store the report only lives in the in-process training set
	base, err := s.baseExamples(ctx, false)
	if err != nil {
		return err
	}
	examples := append(base, example)
	if err := s.publish(ctx, examples); err != nil {
		return err
	}
	s.trained = examples
	return nil
}

// Retrain rebuilds the model from its base examples plus all stored feedback.
// A corpus-based model reads the dataset again so new files are picked up.
func (s *ClassifierService) Retrain(ctx context.Context) error {
	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	return s.retrainLocked(ctx, true)
}

func (s *ClassifierService) retrainLocked(ctx context.Context, refresh bool) error {
	base, err := s.baseExamples(ctx, refresh)
	if err != nil {
		return err
	}

	examples := base
	if s.feedback != nil {
		reported, err := s.feedback.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list feedback: %w", err)
		}
		examples = append(examples, reported...)
		s.logger.Debug("Retraining with feedback",
			zap.Int("base", len(base)),
			zap.Int("feedback", len(reported)))
	}

	return s.publish(ctx, examples)
}

// baseExamples returns the examples given to Train in this process, or the
// corpus when the model did not come from an explicit training run. Stored
// feedback is never part of the result.
func (s *ClassifierService) baseExamples(ctx context.Context, refresh bool) ([]TrainingExample, error) {
	if s.trained != nil {
		return append([]TrainingExample(nil), s.trained...), nil
	}
	corpus, err := s.loadCorpus(ctx, refresh)
	if err != nil {
		return nil, fmt.Errorf("cannot retrain: %w", err)
	}
	return append([]TrainingExample(nil), corpus...), nil
}

// Analyze scores a message and applies the caller's threshold
func (s *ClassifierService) Analyze(ctx context.Context, msg *Message, threshold float64) *SpamAnalysisResult {
	model := s.model.Load()
	score := s.predictor.Predict(model, msg.Text())
	trained := model != nil && model.Trained

	// untrained models never flag spam; the neutral 0.5 does not pass a 0.5 threshold
	result := &SpamAnalysisResult{
		IsSpam:       trained && score > threshold,
		Score:        score,
		AnalyzedAt:   time.Now(),
		ModelUsed:    ModelName,
		ProcessingID: uuid.NewString(),
	}

	switch {
	case !trained:
		result.Explanation = "Classifier is not trained"
	case result.IsSpam:
		result.Explanation = fmt.Sprintf("Spam probability %.4f above threshold %.2f", score, threshold)
	default:
		result.Explanation = fmt.Sprintf("Spam probability %.4f not above threshold %.2f", score, threshold)
	}

	s.logger.Debug("Message analyzed",
		zap.String("processing_id", result.ProcessingID),
		zap.String("sender", msg.From),
		zap.Float64("score", score),
		zap.Bool("is_spam", result.IsSpam))

	return result
}

// Info returns statistics about the live model with up to limit top tokens per class
func (s *ClassifierService) Info(limit int) ModelInfo {
	model := s.model.Load()
	if model == nil {
		return ModelInfo{}
	}

	spam, ham := TopTokens(model, limit)
	return ModelInfo{
		Trained:        model.Trained,
		SmoothingK:     model.SmoothingK,
		SpamMessages:   model.Spam.MessageCount,
		HamMessages:    model.Ham.MessageCount,
		SpamWords:      model.Spam.TotalWordCount,
		HamWords:       model.Ham.TotalWordCount,
		VocabularySize: model.VocabularySize(),
		TopSpamTokens:  spam,
		TopHamTokens:   ham,
	}
}
