package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps the model as a JSON string under a single Redis key
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore connects to redisURL and stores the model under
// <keyPrefix>:model:<name>
func NewRedisStore(ctx context.Context, redisURL, keyPrefix, name string, logger *zap.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis connection failed: %w", err)
	}

	return &RedisStore{
		client: client,
		key:    fmt.Sprintf("%s:model:%s", keyPrefix, name),
		logger: logger,
	}, nil
}

// Key returns the Redis key holding the model
func (s *RedisStore) Key() string {
	return s.key
}

// Save replaces the stored model
func (s *RedisStore) Save(ctx context.Context, model *core.Model) error {
	data, err := EncodeModel(model)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistenceWrite, err)
	}

	s.logger.Debug("Model written to Redis", zap.String("key", s.key), zap.Int("bytes", len(data)))
	return nil
}

// Load reads and validates the stored model
func (s *RedisStore) Load(ctx context.Context) (*core.Model, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: key %s", core.ErrModelNotFound, s.key)
		}
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	return DecodeModel(data)
}

// Delete removes the stored model
func (s *RedisStore) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
