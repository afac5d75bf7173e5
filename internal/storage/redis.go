package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohamedkhairy/sweep-scanner/internal/config"
	"github.com/mohamedkhairy/sweep-scanner/pkg/logger"
)

// RedisKVStore implements KVStore on top of go-redis
type RedisKVStore struct {
	client *redis.Client
}

// NewRedisKVStore connects to Redis and verifies the connection
func NewRedisKVStore(cfg config.RedisConfig) (*RedisKVStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Redis KV store initialized",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
	)
	return &RedisKVStore{client: client}, nil
}

// Set stores a value with a TTL
func (s *RedisKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Exists reports whether the key is present
func (s *RedisKVStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key %s: %w", key, err)
	}
	return n > 0, nil
}

// Close closes the Redis connection
func (s *RedisKVStore) Close() error {
	return s.client.Close()
}
