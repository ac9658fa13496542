package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/bayes-spam-filter/internal/config"
	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/factory"
	"github.com/mikey/bayes-spam-filter/internal/logging"
	"github.com/mikey/bayes-spam-filter/internal/ports"
	"github.com/mikey/bayes-spam-filter/internal/scheduler"
	"github.com/mikey/bayes-spam-filter/internal/utils"
	"github.com/mikey/bayes-spam-filter/internal/whitelist"
)

// BuildContainer creates a container for the long running filter service.
// The logger follows the logging section of the configuration.
func BuildContainer(configFile string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.New(configFile)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideComponents(container); err != nil {
		return nil, err
	}
	return container, nil
}

// provideComponents registers everything that depends only on the
// configuration and the logger
func provideComponents(container *dig.Container) error {
	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFeedbackFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return err
	}

	// Register classifier components
	if err := container.Provide(func(f *factory.ClassifierFactory) *core.Tokenizer {
		return f.CreateTokenizer()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ClassifierFactory, t *core.Tokenizer) (*core.Trainer, error) {
		return f.CreateTrainer(t)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ClassifierFactory, t *core.Tokenizer) *core.Predictor {
		return f.CreatePredictor(t)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ClassifierFactory) core.CorpusLoader {
		return f.CreateCorpusLoader()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ClassifierFactory) core.ServiceOptions {
		return f.ServiceOptions()
	}); err != nil {
		return err
	}

	// Register persistence
	if err := container.Provide(func(f *factory.StoreFactory) (core.ModelStore, error) {
		return f.CreateModelStore(context.Background())
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.FeedbackFactory) (core.FeedbackRepository, error) {
		return f.CreateFeedbackRepository(context.Background())
	}); err != nil {
		return err
	}

	// Register classifier service
	if err := container.Provide(core.NewClassifierService); err != nil {
		return err
	}
	if err := container.Provide(func(s *core.ClassifierService) ports.MessageAnalyzer {
		return s
	}); err != nil {
		return err
	}

	// Register whitelist
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		return whitelist.NewChecker(cfg.GetSpam().WhitelistedDomains, logger)
	}); err != nil {
		return err
	}

	// Register message filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.MessageFilter, error) {
		return f.CreateMessageFilter()
	}); err != nil {
		return err
	}

	// Register retraining scheduler
	if err := container.Provide(func(cfg *config.Config, s *core.ClassifierService, logger *zap.Logger) *scheduler.Scheduler {
		return scheduler.New(cfg.TrainingSchedule(), s.Retrain, logger)
	}); err != nil {
		return err
	}

	return nil
}
