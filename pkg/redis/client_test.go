package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/artmarket-storefront/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestCacheLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := NewMockCmdable()
	client := NewFromCmdable(mock, "kiosk")

	if err := client.SetCache(ctx, "cart", []byte(`[{"id":"a1"}]`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok := mock.Data["kiosk:cache:cart"]; !ok {
		t.Fatalf("expected namespaced key, got %v", mock.Data)
	}

	value, found, err := client.GetCache(ctx, "cart")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found || string(value) != `[{"id":"a1"}]` {
		t.Fatalf("unexpected cache value found=%v value=%q", found, value)
	}

	if err := client.DeleteCache(ctx, "cart", "token"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, found, err = client.GetCache(ctx, "cart")
	if err != nil {
		t.Fatalf("get after delete failed: %v", err)
	}
	if found {
		t.Fatalf("expected cache miss after delete")
	}
}

func TestGetCachePropagatesErrors(t *testing.T) {
	mock := NewMockCmdable()
	mock.GetErr = errors.New("connection reset")
	client := NewFromCmdable(mock, "")

	if _, _, err := client.GetCache(context.Background(), "user"); err == nil {
		t.Fatalf("expected error to propagate")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := NewFromCmdable(nil, "")
	if got := client.CacheKey("token"); got != "storefront:cache:token" {
		t.Fatalf("unexpected cache key %s", got)
	}
	if got := client.CacheKey(" "); got != "storefront:cache" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected error from uninitialized client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on nil raw should be a no-op: %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error without url or address")
	}
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 7, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 || opts.PoolSize != 7 || opts.DialTimeout != time.Second {
		t.Fatalf("unexpected options %+v", opts)
	}
}

// MockCmdable is an in-memory Cmdable.
type MockCmdable struct {
	Data   map[string]string
	GetErr error
}

func NewMockCmdable() *MockCmdable {
	return &MockCmdable{Data: make(map[string]string)}
}

func (m *MockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *MockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.Data[key] = string(v)
	default:
		m.Data[key] = fmt.Sprint(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *MockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.GetErr != nil {
		return redis.NewStringResult("", m.GetErr)
	}
	v, ok := m.Data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *MockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.Data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
