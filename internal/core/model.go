package core

import (
	"sort"
	"time"
)

// TrainingExample is a labeled message used for training and evaluation
type TrainingExample struct {
	Text   string
	IsSpam bool
}

// ClassStatistics holds the counts learned for one class
type ClassStatistics struct {
	MessageCount   int
	WordCounts     map[string]int
	TotalWordCount int
}

func newClassStatistics() ClassStatistics {
	return ClassStatistics{WordCounts: make(map[string]int)}
}

// Model is the trained state of the classifier.
// A published Model is never mutated; retraining builds a new one.
type Model struct {
	SmoothingK float64
	Spam       ClassStatistics
	Ham        ClassStatistics
	Vocabulary map[string]struct{}
	Trained    bool
}

// TotalMessages returns the number of messages seen across both classes
func (m *Model) TotalMessages() int {
	return m.Spam.MessageCount + m.Ham.MessageCount
}

// VocabularySize returns the number of distinct tokens
func (m *Model) VocabularySize() int {
	return len(m.Vocabulary)
}

// Contains reports whether token was seen during training
func (m *Model) Contains(token string) bool {
	_, ok := m.Vocabulary[token]
	return ok
}

// SortedVocabulary returns the vocabulary in lexical order
func (m *Model) SortedVocabulary() []string {
	words := make([]string, 0, len(m.Vocabulary))
	for w := range m.Vocabulary {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Equal compares the statistics of two models
func (m *Model) Equal(other *Model) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.SmoothingK != other.SmoothingK || m.Trained != other.Trained {
		return false
	}
	if !m.Spam.equal(other.Spam) || !m.Ham.equal(other.Ham) {
		return false
	}
	if len(m.Vocabulary) != len(other.Vocabulary) {
		return false
	}
	for w := range m.Vocabulary {
		if !other.Contains(w) {
			return false
		}
	}
	return true
}

func (s ClassStatistics) equal(other ClassStatistics) bool {
	if s.MessageCount != other.MessageCount || s.TotalWordCount != other.TotalWordCount {
		return false
	}
	if len(s.WordCounts) != len(other.WordCounts) {
		return false
	}
	for w, c := range s.WordCounts {
		if other.WordCounts[w] != c {
			return false
		}
	}
	return true
}

// ExamplePrediction is the per-example outcome of an evaluation
type ExamplePrediction struct {
	Text            string  `json:"text"`
	ActualIsSpam    bool    `json:"actual_is_spam"`
	PredictedIsSpam bool    `json:"predicted_is_spam"`
	Probability     float64 `json:"spam_probability"`
}

// EvaluationResult holds accuracy metrics for a labeled set
type EvaluationResult struct {
	Accuracy    float64             `json:"accuracy"`
	Correct     int                 `json:"correct"`
	Total       int                 `json:"total"`
	Predictions []ExamplePrediction `json:"predictions"`
}

// Message is a message handed to the classifier by a filter
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Text returns the text that gets scored
func (m *Message) Text() string {
	if m.Subject == "" {
		return m.Body
	}
	if m.Body == "" {
		return m.Subject
	}
	return m.Subject + "\n" + m.Body
}

// SpamAnalysisResult represents the result of scoring a message against a threshold
type SpamAnalysisResult struct {
	IsSpam       bool
	Score        float64
	Explanation  string
	AnalyzedAt   time.Time
	ModelUsed    string
	ProcessingID string
}

// TokenWeight describes how strongly a token points to one class
type TokenWeight struct {
	Token     string  `json:"token"`
	SpamCount int     `json:"spam_count"`
	HamCount  int     `json:"ham_count"`
	LogRatio  float64 `json:"log_ratio"`
}

// ModelInfo contains model information
type ModelInfo struct {
	Trained        bool          `json:"trained"`
	SmoothingK     float64       `json:"smoothing_k"`
	SpamMessages   int           `json:"spam_messages"`
	HamMessages    int           `json:"ham_messages"`
	SpamWords      int           `json:"spam_words"`
	HamWords       int           `json:"ham_words"`
	VocabularySize int           `json:"vocabulary_size"`
	TopSpamTokens  []TokenWeight `json:"top_spam_tokens"`
	TopHamTokens   []TokenWeight `json:"top_ham_tokens"`
}
