package core

import (
	"math"
	"sort"

	"go.uber.org/zap"
)

const (
	// NeutralProbability is returned whenever the model cannot give a reliable estimate
	NeutralProbability = 0.5

	// emptyClassLogPrior stands in for ln(0) when a class has no messages
	emptyClassLogPrior = -1000.0
)

// Predictor scores text against a trained model
type Predictor struct {
	tokenizer *Tokenizer
	logger    *zap.Logger
}

// NewPredictor creates a new predictor
func NewPredictor(tokenizer *Tokenizer, logger *zap.Logger) *Predictor {
	return &Predictor{
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Predict returns the probability in [0, 1] that text is spam.
// It never fails: anything it cannot score yields NeutralProbability.
func (p *Predictor) Predict(model *Model, text string) float64 {
	if model == nil || !model.Trained {
		p.logger.Warn("Predict called before the classifier is trained, returning neutral probability")
		return NeutralProbability
	}

	total := model.TotalMessages()
	if total == 0 {
		p.logger.Error("Cannot predict: no messages were used in training")
		return NeutralProbability
	}

	logPriorSpam := logPrior(model.Spam.MessageCount, total)
	logPriorHam := logPrior(model.Ham.MessageCount, total)

	var logLikelihoodSpam, logLikelihoodHam float64
	matched := 0
	for _, token := range p.tokenizer.Tokenize(text) {
		if !model.Contains(token) {
			continue
		}
		matched++
		logLikelihoodSpam += math.Log(TokenProbability(model, &model.Spam, token))
		logLikelihoodHam += math.Log(TokenProbability(model, &model.Ham, token))
	}

	if matched == 0 {
		return NeutralProbability
	}

	logPosteriorSpam := logPriorSpam + logLikelihoodSpam
	logPosteriorHam := logPriorHam + logLikelihoodHam

	var probSpam float64
	if logPosteriorSpam >= logPosteriorHam {
		probSpam = 1.0 / (1.0 + math.Exp(logPosteriorHam-logPosteriorSpam))
	} else {
		ratio := math.Exp(logPosteriorSpam - logPosteriorHam)
		probSpam = ratio / (1.0 + ratio)
	}

	if math.IsNaN(probSpam) || math.IsInf(probSpam, 0) {
		p.logger.Warn("Prediction was not a finite number, returning neutral probability",
			zap.Float64("log_posterior_spam", logPosteriorSpam),
			zap.Float64("log_posterior_ham", logPosteriorHam))
		return NeutralProbability
	}

	return probSpam
}

// TokenProbability returns the smoothed P(token|class):
// (count + k) / (totalWords + k*|V|)
func TokenProbability(model *Model, stats *ClassStatistics, token string) float64 {
	k := model.SmoothingK
	numerator := float64(stats.WordCounts[token]) + k
	denominator := float64(stats.TotalWordCount) + k*float64(len(model.Vocabulary))
	if denominator <= 0 {
		return 1.0 / float64(len(model.Vocabulary)+1)
	}
	return numerator / denominator
}

func logPrior(count, total int) float64 {
	if count <= 0 {
		return emptyClassLogPrior
	}
	return math.Log(float64(count) / float64(total))
}

// TopTokens ranks vocabulary tokens by log(P(t|spam)/P(t|ham)).
// Spam-indicative tokens come first in spam, ham-indicative ones in ham.
func TopTokens(model *Model, limit int) (spam, ham []TokenWeight) {
	if model == nil || !model.Trained {
		return nil, nil
	}

	weights := make([]TokenWeight, 0, len(model.Vocabulary))
	for token := range model.Vocabulary {
		ratio := math.Log(TokenProbability(model, &model.Spam, token)) -
			math.Log(TokenProbability(model, &model.Ham, token))
		weights = append(weights, TokenWeight{
			Token:     token,
			SpamCount: model.Spam.WordCounts[token],
			HamCount:  model.Ham.WordCounts[token],
			LogRatio:  ratio,
		})
	}

	sort.Slice(weights, func(i, j int) bool {
		if weights[i].LogRatio == weights[j].LogRatio {
			return weights[i].Token < weights[j].Token
		}
		return weights[i].LogRatio > weights[j].LogRatio
	})

	n := len(weights)
	if limit <= 0 || limit > n {
		limit = n
	}

	spam = make([]TokenWeight, 0, limit)
	for i := 0; i < limit && weights[i].LogRatio > 0; i++ {
		spam = append(spam, weights[i])
	}
	ham = make([]TokenWeight, 0, limit)
	for i := n - 1; i >= n-limit && weights[i].LogRatio < 0; i-- {
		ham = append(ham, weights[i])
	}

	return spam, ham
}
