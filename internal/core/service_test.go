package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
)

type fakeStore struct {
	mu      sync.Mutex
	model   *Model
	loadErr error
	saveErr error
	saves   int
}

func (s *fakeStore) Save(ctx context.Context, model *Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.model = model
	s.saves++
	return nil
}

func (s *fakeStore) Load(ctx context.Context) (*Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.model == nil {
		return nil, ErrModelNotFound
	}
	return s.model, nil
}

func (s *fakeStore) Close() error { return nil }

type fakeLoader struct {
	examples []TrainingExample
	err      error
	calls    int
}

func (l *fakeLoader) Load(ctx context.Context, root string) ([]TrainingExample, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return append([]TrainingExample(nil), l.examples...), nil
}

type fakeFeedback struct {
	mu       sync.Mutex
	examples []TrainingExample
}

func (f *fakeFeedback) Add(ctx context.Context, example TrainingExample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.examples = append(f.examples, example)
	return nil
}

func (f *fakeFeedback) List(ctx context.Context) ([]TrainingExample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TrainingExample(nil), f.examples...), nil
}

func (f *fakeFeedback) Close() error { return nil }

func newTestService(t *testing.T, store ModelStore, loader CorpusLoader, feedback FeedbackRepository, opts ServiceOptions) *ClassifierService {
	t.Helper()
	trainer := newTestTrainer(t)
	predictor := NewPredictor(trainer.Tokenizer(), zaptest.NewLogger(t))
	return NewClassifierService(trainer, predictor, store, loader, feedback, opts, zaptest.NewLogger(t))
}

func TestInitializeLoadsPersistedModel(t *testing.T) {
	persisted, err := newTestTrainer(t).Train(scenarioExamples)
	if err != nil {
		t.Fatal(err)
	}
	store := &fakeStore{model: persisted}
	loader := &fakeLoader{examples: scenarioExamples}

	svc := newTestService(t, store, loader, nil, ServiceOptions{AutoTrain: true, SaveOnTrain: true})
	svc.Initialize(context.Background())

	if !svc.IsTrained() {
		t.Fatal("service should be trained after loading")
	}
	if svc.Model() != persisted {
		t.Error("expected the persisted model to be live")
	}
	if loader.calls != 0 {
		t.Errorf("loader called %d times, want 0", loader.calls)
	}
}

func TestInitializeAutoTrains(t *testing.T) {
	store := &fakeStore{}
	loader := &fakeLoader{examples: scenarioExamples}

	svc := newTestService(t, store, loader, nil, ServiceOptions{DatasetPath: "dataset", AutoTrain: true, SaveOnTrain: true})
	svc.Initialize(context.Background())
	svc.Initialize(context.Background())

	if !svc.IsTrained() {
		t.Fatal("service should be trained after auto-training")
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
	if loader.calls != 1 {
		t.Errorf("loader calls = %d, want 1", loader.calls)
	}
	if p := svc.Predict("free money"); p <= 0.5 {
		t.Errorf("Predict(free money) = %v, want > 0.5", p)
	}
}

func TestInitializeCorruptModelFallsBackToTraining(t *testing.T) {
	store := &fakeStore{loadErr: ErrCorruptModel}
	loader := &fakeLoader{examples: scenarioExamples}

	svc := newTestService(t, store, loader, nil, ServiceOptions{AutoTrain: true})
	svc.Initialize(context.Background())

	if !svc.IsTrained() {
		t.Fatal("service should have auto-trained after a corrupt model")
	}
}

func TestInitializeStaysUntrained(t *testing.T) {
	tests := []struct {
		name   string
		loader CorpusLoader
		opts   ServiceOptions
	}{
		{"Auto-train disabled", &fakeLoader{examples: scenarioExamples}, ServiceOptions{AutoTrain: false}},
		{"Dataset missing", &fakeLoader{err: ErrDatasetMissing}, ServiceOptions{AutoTrain: true}},
		{"Empty dataset", &fakeLoader{}, ServiceOptions{AutoTrain: true}},
		{"No loader", nil, ServiceOptions{AutoTrain: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &fakeStore{}, tt.loader, nil, tt.opts)
			svc.Initialize(context.Background())

			if svc.IsTrained() {
				t.Error("service should be untrained")
			}
			if p := svc.Predict("free money"); p != NeutralProbability {
				t.Errorf("Predict() = %v, want 0.5", p)
			}
		})
	}
}

func TestTrainEmptyKeepsPreviousModel(t *testing.T) {
	svc := newTestService(t, nil, nil, nil, ServiceOptions{})
	ctx := context.Background()

	if err := svc.Train(ctx, scenarioExamples); err != nil {
		t.Fatal(err)
	}
	before := svc.Model()

	if err := svc.Train(ctx, nil); !errors.Is(err, ErrEmptyTrainingSet) {
		t.Fatalf("Train(nil) error = %v, want ErrEmptyTrainingSet", err)
	}
	if svc.Model() != before {
		t.Error("failed training replaced the model")
	}
	if p := svc.Predict("free money"); p <= 0.5 {
		t.Errorf("Predict(free money) = %v after failed training, want > 0.5", p)
	}
}

func TestTrainPersistFailureIsLogged(t *testing.T) {
	store := &fakeStore{saveErr: ErrPersistenceWrite}
	svc := newTestService(t, store, nil, nil, ServiceOptions{SaveOnTrain: true})

	if err := svc.Train(context.Background(), scenarioExamples); err != nil {
		t.Fatalf("Train() error = %v, want nil", err)
	}
	if !svc.IsTrained() {
		t.Error("model should be live even when saving failed")
	}
	if err := svc.Save(context.Background()); !errors.Is(err, ErrPersistenceWrite) {
		t.Errorf("Save() error = %v, want ErrPersistenceWrite", err)
	}
}

func TestSaveUntrained(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil, nil, ServiceOptions{})
	if err := svc.Save(context.Background()); !errors.Is(err, ErrModelNotTrained) {
		t.Errorf("Save() error = %v, want ErrModelNotTrained", err)
	}
}

func TestEvaluateUntrainedService(t *testing.T) {
	svc := newTestService(t, nil, nil, nil, ServiceOptions{})
	result, err := svc.Evaluate(scenarioExamples)
	if !errors.Is(err, ErrModelNotTrained) {
		t.Fatalf("Evaluate() error = %v, want ErrModelNotTrained", err)
	}
	if result.Total != 0 {
		t.Errorf("result = %+v, want zero result", result)
	}
}

func TestReportWithFeedback(t *testing.T) {
	loader := &fakeLoader{examples: scenarioExamples}
	feedback := &fakeFeedback{}
	svc := newTestService(t, nil, loader, feedback, ServiceOptions{AutoTrain: true})
	ctx := context.Background()
	svc.Initialize(ctx)

	text := "lunch tomorrow"
	if p := svc.Predict(text); p != NeutralProbability {
		t.Fatalf("Predict(%q) = %v before report, want 0.5", text, p)
	}

	if err := svc.Report(ctx, text, true); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if p := svc.Predict(text); p <= 0.5 {
		t.Errorf("Predict(%q) = %v after spam report, want > 0.5", text, p)
	}
	if len(feedback.examples) != 1 {
		t.Errorf("feedback size = %d, want 1", len(feedback.examples))
	}

	model := svc.Model()
	if model.Spam.MessageCount != 3 || model.Ham.MessageCount != 2 {
		t.Errorf("counts = %d/%d, want 3/2", model.Spam.MessageCount, model.Ham.MessageCount)
	}
	if loader.calls != 1 {
		t.Errorf("corpus loaded %d times, want 1", loader.calls)
	}
}

func TestReportWithoutFeedbackAccumulates(t *testing.T) {
	svc := newTestService(t, nil, &fakeLoader{examples: scenarioExamples}, nil, ServiceOptions{AutoTrain: true})
	ctx := context.Background()
	svc.Initialize(ctx)

	if err := svc.Report(ctx, "lunch tomorrow", false); err != nil {
		t.Fatal(err)
	}
	if err := svc.Report(ctx, "cheap pills", true); err != nil {
		t.Fatal(err)
	}

	model := svc.Model()
	if model.TotalMessages() != 6 {
		t.Errorf("total messages = %d, want 6", model.TotalMessages())
	}
	if !model.Contains("lunch") || !model.Contains("pills") {
		t.Error("reported messages missing from the vocabulary")
	}
}

func TestReportWithoutCorpus(t *testing.T) {
	svc := newTestService(t, nil, &fakeLoader{err: ErrDatasetMissing}, &fakeFeedback{}, ServiceOptions{})

	err := svc.Report(context.Background(), "cheap pills", true)
	if !errors.Is(err, ErrDatasetMissing) {
		t.Fatalf("Report() error = %v, want ErrDatasetMissing", err)
	}
	if svc.IsTrained() {
		t.Error("model should stay untrained")
	}
}

func TestRetrainMatchesFullTraining(t *testing.T) {
	feedback := &fakeFeedback{examples: []TrainingExample{{Text: "cheap pills", IsSpam: true}}}
	svc := newTestService(t, nil, &fakeLoader{examples: scenarioExamples}, feedback, ServiceOptions{})

	if err := svc.Retrain(context.Background()); err != nil {
		t.Fatal(err)
	}

	want, err := newTestTrainer(t).Train(append(append([]TrainingExample{}, scenarioExamples...), feedback.examples...))
	if err != nil {
		t.Fatal(err)
	}
	if !svc.Model().Equal(want) {
		t.Error("retrained model differs from a full training run")
	}
}

func TestAnalyze(t *testing.T) {
	svc := newTestService(t, nil, nil, nil, ServiceOptions{})
	ctx := context.Background()
	msg := &Message{From: "a@example.com", Subject: "free money"}

	untrained := svc.Analyze(ctx, msg, 0.5)
	if untrained.Score != NeutralProbability || untrained.IsSpam {
		t.Errorf("untrained result = %+v, want score 0.5 and not spam", untrained)
	}
	if low := svc.Analyze(ctx, msg, 0.1); low.IsSpam {
		t.Error("an untrained model must never mark messages as spam")
	}

	if err := svc.Train(ctx, scenarioExamples); err != nil {
		t.Fatal(err)
	}

	result := svc.Analyze(ctx, msg, 0.5)
	if !result.IsSpam || result.Score <= 0.5 {
		t.Errorf("result = %+v, want spam", result)
	}
	if result.ProcessingID == "" || result.ModelUsed != ModelName || result.Explanation == "" {
		t.Errorf("result metadata incomplete: %+v", result)
	}
	if strict := svc.Analyze(ctx, msg, 1.01); strict.IsSpam {
		t.Error("nothing should reach a threshold above 1")
	}
	if other := svc.Analyze(ctx, msg, 0.5); other.ProcessingID == result.ProcessingID {
		t.Error("processing ids should be unique")
	}

	unknown := svc.Analyze(ctx, &Message{Subject: "totally unseen words"}, 0.5)
	if unknown.Score != NeutralProbability || unknown.IsSpam {
		t.Errorf("unknown words result = %+v, want score 0.5 and not spam", unknown)
	}
}

func TestReportKeepsExplicitTrainingSet(t *testing.T) {
	budget := TrainingExample{Text: "quarterly budget review", IsSpam: false}

	tests := []struct {
		name   string
		loader CorpusLoader
	}{
		{"No loader", nil},
		{"With corpus", &fakeLoader{examples: scenarioExamples}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feedback := &fakeFeedback{}
			svc := newTestService(t, nil, tt.loader, feedback, ServiceOptions{})
			ctx := context.Background()

			trainSet := append(append([]TrainingExample{}, scenarioExamples...), budget)
			if err := svc.Train(ctx, trainSet); err != nil {
				t.Fatal(err)
			}
			if err := svc.Report(ctx, "cheap pills", true); err != nil {
				t.Fatalf("Report() error = %v", err)
			}

			model := svc.Model()
			if model.TotalMessages() != 6 {
				t.Errorf("total messages = %d, want 6", model.TotalMessages())
			}
			if !model.Contains("budget") || !model.Contains("pills") {
				t.Error("model lost the trained or the reported examples")
			}

			// a second report must not count the first one twice
			if err := svc.Report(ctx, "lunch tomorrow", false); err != nil {
				t.Fatal(err)
			}
			if got := svc.Model().TotalMessages(); got != 7 {
				t.Errorf("total messages = %d after second report, want 7", got)
			}
		})
	}
}

func TestRetrainReadsCorpusAgain(t *testing.T) {
	loader := &fakeLoader{examples: scenarioExamples}
	svc := newTestService(t, nil, loader, &fakeFeedback{}, ServiceOptions{AutoTrain: true})
	ctx := context.Background()
	svc.Initialize(ctx)

	loader.examples = append(append([]TrainingExample{}, scenarioExamples...), TrainingExample{Text: "cheap pills", IsSpam: true})
	if err := svc.Retrain(ctx); err != nil {
		t.Fatal(err)
	}

	if loader.calls != 2 {
		t.Errorf("loader calls = %d, want 2", loader.calls)
	}
	if !svc.Model().Contains("pills") {
		t.Error("retrain did not pick up the new dataset file")
	}
}

func TestInfo(t *testing.T) {
	svc := newTestService(t, nil, nil, nil, ServiceOptions{})
	if info := svc.Info(5); info.Trained {
		t.Error("untrained service reported trained info")
	}

	if err := svc.Train(context.Background(), scenarioExamples); err != nil {
		t.Fatal(err)
	}
	info := svc.Info(2)
	if !info.Trained || info.SpamMessages != 2 || info.HamMessages != 2 || info.VocabularySize != 9 {
		t.Errorf("info = %+v", info)
	}
	if len(info.TopSpamTokens) != 2 || len(info.TopHamTokens) != 2 {
		t.Errorf("top tokens = %d/%d, want 2/2", len(info.TopSpamTokens), len(info.TopHamTokens))
	}
}

func TestConcurrentPredictAndTrain(t *testing.T) {
	svc := newTestService(t, nil, nil, nil, ServiceOptions{})
	ctx := context.Background()
	if err := svc.Train(ctx, scenarioExamples); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				p := svc.Predict("free money meet friend")
				if p < 0 || p > 1 {
					t.Errorf("Predict() = %v out of range", p)
					return
				}
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if err := svc.Train(ctx, scenarioExamples); err != nil {
					t.Errorf("Train() error = %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if !svc.IsTrained() {
		t.Error("service should still be trained")
	}
}
