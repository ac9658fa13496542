package factory

import (
	"github.com/mikey/bayes-spam-filter/internal/adapters/corpus"
	"github.com/mikey/bayes-spam-filter/internal/config"
	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/utils"
	"go.uber.org/zap"
)

// ClassifierFactory creates the classifier building blocks
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateTokenizer creates the tokenizer shared by training and prediction
func (f *ClassifierFactory) CreateTokenizer() *core.Tokenizer {
	return core.NewTokenizer(f.cfg.GetClassifier().MinTokenLength)
}

// CreateTrainer creates a trainer with the configured smoothing constant
func (f *ClassifierFactory) CreateTrainer(tokenizer *core.Tokenizer) (*core.Trainer, error) {
	return core.NewTrainer(tokenizer, f.cfg.GetClassifier().SmoothingK, f.logger)
}

// CreatePredictor creates a predictor
func (f *ClassifierFactory) CreatePredictor(tokenizer *core.Tokenizer) *core.Predictor {
	return core.NewPredictor(tokenizer, f.logger)
}

// CreateCorpusLoader creates the dataset loader
func (f *ClassifierFactory) CreateCorpusLoader() core.CorpusLoader {
	return corpus.NewDirectoryLoader(f.logger, f.textProcessor, f.cfg.GetClassifier().DatasetPattern)
}

// ServiceOptions returns the service start-up options
func (f *ClassifierFactory) ServiceOptions() core.ServiceOptions {
	classifier := f.cfg.GetClassifier()
	return core.ServiceOptions{
		DatasetPath: classifier.DatasetPath,
		AutoTrain:   classifier.AutoTrain,
		SaveOnTrain: f.cfg.GetStorage().SaveOnTrain,
	}
}
