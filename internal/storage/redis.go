package storage

import (
	"context"
	"fmt"

	"github.com/angelmondragon/artmarket-storefront/pkg/redis"
)

// RedisStore keeps entries in redis, namespaced by the client.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, found, err := s.client.GetCache(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	return value, found, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.SetCache(ctx, key, value); err != nil {
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if err := s.client.DeleteCache(ctx, keys...); err != nil {
		return fmt.Errorf("delete cache entries: %w", err)
	}
	return nil
}
