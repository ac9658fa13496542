package core

// DefaultMinTokenLength is the minimum token length used when none is configured
const DefaultMinTokenLength = 3

// Tokenizer splits text into lower-cased ASCII alphanumeric tokens
type Tokenizer struct {
	minLength int
}

// NewTokenizer creates a tokenizer that drops tokens shorter than minLength
func NewTokenizer(minLength int) *Tokenizer {
	if minLength < 1 {
		minLength = 1
	}
	return &Tokenizer{minLength: minLength}
}

// MinLength returns the configured minimum token length
func (t *Tokenizer) MinLength() int {
	return t.minLength
}

// Tokenize returns every maximal run of [a-z0-9] in the lower-cased text.
// Repeated tokens are kept.
func (t *Tokenizer) Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/4)
	buf := make([]byte, 0, 32)

	flush := func() {
		if len(buf) >= t.minLength {
			tokens = append(tokens, string(buf))
		}
		buf = buf[:0]
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			buf = append(buf, c)
		case c >= 'A' && c <= 'Z':
			buf = append(buf, c+('a'-'A'))
		default:
			flush()
		}
	}
	flush()

	return tokens
}
