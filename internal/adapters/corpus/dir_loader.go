package corpus

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/utils"
	"go.uber.org/zap"
)

const (
	// SpamDir and HamDir are the class subdirectories of a dataset root
	SpamDir = "spam"
	HamDir  = "ham"

	// DefaultPattern matches the files read from each class directory
	DefaultPattern = "*.txt"

	subjectPrefix = "subject:"
)

// DirectoryLoader reads a dataset laid out as <root>/spam/*.txt and <root>/ham/*.txt
type DirectoryLoader struct {
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	pattern       string
	rng           *rand.Rand
}

// NewDirectoryLoader creates a new dataset loader
func NewDirectoryLoader(logger *zap.Logger, textProcessor *utils.TextProcessor, pattern string) *DirectoryLoader {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &DirectoryLoader{
		logger:        logger,
		textProcessor: textProcessor,
		pattern:       pattern,
	}
}

// WithRand makes the shuffle deterministic
func (l *DirectoryLoader) WithRand(rng *rand.Rand) *DirectoryLoader {
	l.rng = rng
	return l
}

// Load reads every matching file of both class directories and returns the
// examples shuffled
func (l *DirectoryLoader) Load(ctx context.Context, root string) ([]core.TrainingExample, error) {
	root = filepath.Clean(root)
	spamPath := filepath.Join(root, SpamDir)
	hamPath := filepath.Join(root, HamDir)

	for _, dir := range []string{root, spamPath, hamPath} {
		if !isDir(dir) {
			return nil, fmt.Errorf("%w: directory not found: %s", core.ErrDatasetMissing, dir)
		}
	}

	spam, err := l.loadClass(ctx, spamPath, true)
	if err != nil {
		return nil, err
	}
	ham, err := l.loadClass(ctx, hamPath, false)
	if err != nil {
		return nil, err
	}

	examples := append(spam, ham...)
	l.logger.Info("Loaded dataset",
		zap.String("root", root),
		zap.Int("spam", len(spam)),
		zap.Int("ham", len(ham)))

	core.Shuffle(examples, l.rng)
	return examples, nil
}

func (l *DirectoryLoader) loadClass(ctx context.Context, dir string, isSpam bool) ([]core.TrainingExample, error) {
	files, err := filepath.Glob(filepath.Join(dir, l.pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid dataset pattern %q: %w", l.pattern, err)
	}

	l.logger.Debug("Found dataset files",
		zap.String("dir", dir),
		zap.Int("count", len(files)))

	examples := make([]core.TrainingExample, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(file)
		if err != nil {
			l.logger.Warn("Failed to read dataset file", zap.String("file", file), zap.Error(err))
			continue
		}

		text := ExtractText(l.textProcessor.Decode(content))
		if text == "" {
			l.logger.Warn("Empty content extracted from dataset file", zap.String("file", file))
			continue
		}

		examples = append(examples, core.TrainingExample{Text: text, IsSpam: isSpam})
	}

	return examples, nil
}

// ExtractText returns the subject when the first line is a "Subject:" header,
// otherwise the whole trimmed content
func ExtractText(content string) string {
	firstLine, _, _ := strings.Cut(content, "\n")
	if len(firstLine) >= len(subjectPrefix) && strings.EqualFold(firstLine[:len(subjectPrefix)], subjectPrefix) {
		if subject := strings.TrimSpace(firstLine[len(subjectPrefix):]); subject != "" {
			return subject
		}
	}
	return strings.TrimSpace(content)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
