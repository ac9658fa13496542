package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mikey/bayes-spam-filter/internal/core"
)

// record is the persisted form of a model. Every field is a pointer so that
// a missing key can be told apart from a zero value.
type record struct {
	K                *float64        `json:"k"`
	NumSpamMessages  *int            `json:"numSpamMessages"`
	NumHamMessages   *int            `json:"numHamMessages"`
	WordCountsSpam   *map[string]int `json:"wordCountsSpam"`
	WordCountsHam    *map[string]int `json:"wordCountsHam"`
	TotalWordsInSpam *int            `json:"totalWordsInSpam"`
	TotalWordsInHam  *int            `json:"totalWordsInHam"`
	Vocabulary       *[]string       `json:"vocabulary"`
}

// EncodeModel serializes a trained model as indented JSON
func EncodeModel(model *core.Model) ([]byte, error) {
	if model == nil || !model.Trained {
		return nil, core.ErrModelNotTrained
	}

	vocabulary := model.SortedVocabulary()
	spamCounts := nonNilCounts(model.Spam.WordCounts)
	hamCounts := nonNilCounts(model.Ham.WordCounts)

	rec := record{
		K:                &model.SmoothingK,
		NumSpamMessages:  &model.Spam.MessageCount,
		NumHamMessages:   &model.Ham.MessageCount,
		WordCountsSpam:   &spamCounts,
		WordCountsHam:    &hamCounts,
		TotalWordsInSpam: &model.Spam.TotalWordCount,
		TotalWordsInHam:  &model.Ham.TotalWordCount,
		Vocabulary:       &vocabulary,
	}

	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	return data, nil
}

// DecodeModel parses a persisted model. Any missing key or inconsistent
// count yields core.ErrCorruptModel and no model.
func DecodeModel(data []byte) (*core.Model, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty payload", core.ErrCorruptModel)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCorruptModel, err)
	}

	if err := rec.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCorruptModel, err)
	}

	vocabulary := make(map[string]struct{}, len(*rec.Vocabulary))
	for _, w := range *rec.Vocabulary {
		vocabulary[w] = struct{}{}
	}

	return &core.Model{
		SmoothingK: *rec.K,
		Spam: core.ClassStatistics{
			MessageCount:   *rec.NumSpamMessages,
			WordCounts:     nonNilCounts(*rec.WordCountsSpam),
			TotalWordCount: *rec.TotalWordsInSpam,
		},
		Ham: core.ClassStatistics{
			MessageCount:   *rec.NumHamMessages,
			WordCounts:     nonNilCounts(*rec.WordCountsHam),
			TotalWordCount: *rec.TotalWordsInHam,
		},
		Vocabulary: vocabulary,
		Trained:    true,
	}, nil
}

func (r *record) validate() error {
	required := []struct {
		name    string
		present bool
	}{
		{"k", r.K != nil},
		{"numSpamMessages", r.NumSpamMessages != nil},
		{"numHamMessages", r.NumHamMessages != nil},
		{"wordCountsSpam", r.WordCountsSpam != nil},
		{"wordCountsHam", r.WordCountsHam != nil},
		{"totalWordsInSpam", r.TotalWordsInSpam != nil},
		{"totalWordsInHam", r.TotalWordsInHam != nil},
		{"vocabulary", r.Vocabulary != nil},
	}
	for _, field := range required {
		if !field.present {
			return fmt.Errorf("missing required key %q", field.name)
		}
	}

	if *r.K <= 0 {
		return fmt.Errorf("smoothing factor must be positive, got %v", *r.K)
	}
	if *r.NumSpamMessages < 0 || *r.NumHamMessages < 0 {
		return fmt.Errorf("negative message count")
	}
	if err := checkCounts("spam", *r.WordCountsSpam, *r.TotalWordsInSpam); err != nil {
		return err
	}
	if err := checkCounts("ham", *r.WordCountsHam, *r.TotalWordsInHam); err != nil {
		return err
	}
	return nil
}

func checkCounts(class string, counts map[string]int, total int) error {
	sum := 0
	for word, c := range counts {
		if c < 0 {
			return fmt.Errorf("negative %s count for %q", class, word)
		}
		sum += c
	}
	if sum != total {
		return fmt.Errorf("%s total word count %d does not match sum of counts %d", class, total, sum)
	}
	return nil
}

func nonNilCounts(counts map[string]int) map[string]int {
	if counts == nil {
		return map[string]int{}
	}
	return counts
}
