package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	spamLabel = "spam"
	hamLabel  = "ham"
)

// RedisRepository stores reported examples in a Redis list as "<label>\t<text>"
type RedisRepository struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisRepository connects to redisURL and appends feedback to
// <keyPrefix>:feedback
func NewRedisRepository(ctx context.Context, redisURL, keyPrefix string, logger *zap.Logger) (*RedisRepository, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis connection failed: %w", err)
	}

	return &RedisRepository{
		client: client,
		key:    keyPrefix + ":feedback",
		logger: logger,
	}, nil
}

// Add appends one reported example
func (r *RedisRepository) Add(ctx context.Context, example core.TrainingExample) error {
	label := hamLabel
	if example.IsSpam {
		label = spamLabel
	}

	if err := r.client.RPush(ctx, r.key, label+"\t"+example.Text).Err(); err != nil {
		return fmt.Errorf("failed to push feedback: %w", err)
	}
	return nil
}

// List returns every reported example in insertion order.
// Malformed entries are skipped.
func (r *RedisRepository) List(ctx context.Context) ([]core.TrainingExample, error) {
	entries, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback: %w", err)
	}

	examples := make([]core.TrainingExample, 0, len(entries))
	for _, entry := range entries {
		label, text, ok := strings.Cut(entry, "\t")
		if !ok || (label != spamLabel && label != hamLabel) {
			r.logger.Warn("Skipping malformed feedback entry", zap.String("key", r.key))
			continue
		}
		examples = append(examples, core.TrainingExample{Text: text, IsSpam: label == spamLabel})
	}
	return examples, nil
}

// Clear removes all stored feedback
func (r *RedisRepository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

// Close closes the Redis connection
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
