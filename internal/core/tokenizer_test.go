package core

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name      string
		minLength int
		text      string
		expected  []string
	}{
		{
			name:      "Lower cases and splits on punctuation",
			minLength: 1,
			text:      "Hello, WORLD! it's 2024",
			expected:  []string{"hello", "world", "it", "s", "2024"},
		},
		{
			name:      "Drops short tokens",
			minLength: 3,
			text:      "meet me at the cafe",
			expected:  []string{"meet", "the", "cafe"},
		},
		{
			name:      "Keeps repeats",
			minLength: 3,
			text:      "free free FREE",
			expected:  []string{"free", "free", "free"},
		},
		{
			name:      "Non ASCII letters split tokens",
			minLength: 1,
			text:      "café naïve",
			expected:  []string{"caf", "na", "ve"},
		},
		{
			name:      "Underscores and hyphens are separators",
			minLength: 1,
			text:      "snake_case kebab-case",
			expected:  []string{"snake", "case", "kebab", "case"},
		},
		{
			name:      "Empty text",
			minLength: 1,
			text:      "",
			expected:  []string{},
		},
		{
			name:      "Only punctuation",
			minLength: 1,
			text:      "!!! ... ???",
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTokenizer(tt.minLength).Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestNewTokenizerClampsMinLength(t *testing.T) {
	for _, n := range []int{-5, 0} {
		if got := NewTokenizer(n).MinLength(); got != 1 {
			t.Errorf("NewTokenizer(%d).MinLength() = %d, want 1", n, got)
		}
	}
	if got := NewTokenizer(DefaultMinTokenLength).MinLength(); got != 3 {
		t.Errorf("MinLength() = %d, want 3", got)
	}
}

func TestTokenizeIsDeterministic(t *testing.T) {
	tok := NewTokenizer(DefaultMinTokenLength)
	text := "Win a FREE cruise!!! Reply now to claim 1000 dollars"
	first := tok.Tokenize(text)
	for i := 0; i < 5; i++ {
		if got := tok.Tokenize(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}
