package core

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Evaluate scores every example with predictor and compares against its label.
// A message counts as spam when its probability is strictly above 0.5.
func Evaluate(predictor *Predictor, model *Model, examples []TrainingExample) (EvaluationResult, error) {
	if model == nil || !model.Trained {
		return EvaluationResult{}, ErrModelNotTrained
	}

	total := len(examples)
	if total == 0 {
		return EvaluationResult{Accuracy: 1, Predictions: []ExamplePrediction{}}, nil
	}

	result := EvaluationResult{
		Total:       total,
		Predictions: make([]ExamplePrediction, 0, total),
	}

	for _, ex := range examples {
		probability := predictor.Predict(model, ex.Text)
		predictedIsSpam := probability > NeutralProbability

		result.Predictions = append(result.Predictions, ExamplePrediction{
			Text:            ex.Text,
			ActualIsSpam:    ex.IsSpam,
			PredictedIsSpam: predictedIsSpam,
			Probability:     probability,
		})

		if predictedIsSpam == ex.IsSpam {
			result.Correct++
		}
	}

	result.Accuracy = float64(result.Correct) / float64(total)
	return result, nil
}

// TrainTestSplit shuffles a copy of examples and cuts it at floor(n*trainFraction).
// With more than one example both parts are guaranteed to be non-empty.
// rng may be nil, in which case the global source is used.
func TrainTestSplit(examples []TrainingExample, trainFraction float64, rng *rand.Rand) (train, test []TrainingExample, err error) {
	if !(trainFraction > 0 && trainFraction < 1) {
		return nil, nil, fmt.Errorf("%w: got %v", ErrInvalidFraction, trainFraction)
	}

	n := len(examples)
	if n == 0 {
		return []TrainingExample{}, []TrainingExample{}, nil
	}

	shuffled := make([]TrainingExample, n)
	copy(shuffled, examples)
	Shuffle(shuffled, rng)

	numTrain := int(math.Floor(float64(n) * trainFraction))
	if numTrain == 0 || numTrain == n {
		if n > 1 {
			numTrain = max(1, min(n-1, numTrain))
		} else {
			numTrain = n
		}
	}

	return shuffled[:numTrain], shuffled[numTrain:], nil
}

// Shuffle permutes examples in place
func Shuffle(examples []TrainingExample, rng *rand.Rand) {
	swap := func(i, j int) { examples[i], examples[j] = examples[j], examples[i] }
	if rng == nil {
		rand.Shuffle(len(examples), swap)
		return
	}
	rng.Shuffle(len(examples), swap)
}
