// Package redisstore implements store.Store on top of Redis so that
// several terminals can share one set of collections.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yiblet/omikuji/internal/store"
	"go.uber.org/zap"
)

const (
	DefaultPrefix  = "omikuji:"
	DefaultTimeout = 2 * time.Second
)

// Config holds connection settings for the Redis store.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Timeout  time.Duration
}

// RedisStore is a Redis-backed implementation of store.Store.
// Every key is namespaced with Prefix.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

// New connects to Redis and verifies the connection with a PING.
func New(cfg Config, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	s := NewWithClient(client, cfg.Prefix, cfg.Timeout, logger)

	ctx, cancel := s.ctx()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return s, nil
}

// NewWithClient wraps an existing client. Empty prefix and zero timeout
// fall back to the defaults.
func NewWithClient(client *redis.Client, prefix string, timeout time.Duration, logger *zap.Logger) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
		logger:  logger.Named("redisstore"),
	}
}

func (s *RedisStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get retrieves a value by key.
func (s *RedisStore) Get(key string) (string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	if err != nil {
		s.logger.Error("Failed to get key", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to get entry: %w", err)
	}
	return value, nil
}

// Set stores a value with no expiry.
func (s *RedisStore) Set(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		s.logger.Error("Failed to set key", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set entry: %w", err)
	}
	s.logger.Debug("Stored key", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

// Delete removes a key.
func (s *RedisStore) Delete(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	n, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return nil
}

// Keys scans the prefix namespace and returns unprefixed keys in lexical order.
func (s *RedisStore) Keys() ([]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
