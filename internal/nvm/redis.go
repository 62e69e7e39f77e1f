package nvm

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/calder/rfboard/internal/metrics"
)

// RedisStore persists keys in Redis. The bench and HIL rigs run a local
// instance; values are written without TTL so programs survive resets.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at addr and verifies the
// connection with a ping.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       addr,
		MaxRetries: 3,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Get returns the value for key, reporting absence without error.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, namespaced(key)).Result()
	if err == redis.Nil {
		metrics.StoreOperations.WithLabelValues("get", "miss").Inc()
		return "", false, nil
	}
	if err != nil {
		metrics.StoreOperations.WithLabelValues("get", "error").Inc()
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	metrics.StoreOperations.WithLabelValues("get", "ok").Inc()
	return val, true, nil
}

// Set stores value under key with no expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, namespaced(key), value, 0).Err(); err != nil {
		metrics.StoreOperations.WithLabelValues("set", "error").Inc()
		return fmt.Errorf("set %s: %w", key, err)
	}
	metrics.StoreOperations.WithLabelValues("set", "ok").Inc()
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func namespaced(key string) string {
	return Namespace + ":" + key
}
