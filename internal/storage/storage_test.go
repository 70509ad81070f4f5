package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/artmarket-storefront/pkg/config"
	"github.com/angelmondragon/artmarket-storefront/pkg/db"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/migrate"
	"github.com/angelmondragon/artmarket-storefront/pkg/redis"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSQLiteStore(t *testing.T, namespace string) *GormStore {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.Up(context.Background(), sqlDB, "sqlite3"))
	return NewGormStore(db.NewFromGorm(conn), namespace)
}

type mockCmdable struct {
	data map[string]string
}

func (m *mockCmdable) Ping(context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, _ time.Duration) *goredis.StatusCmd {
	m.data[key] = string(value.([]byte))
	return goredis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *goredis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return goredis.NewIntResult(int64(len(keys)), nil)
}

func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"gorm":   newSQLiteStore(t, "test"),
		"redis":  NewRedisStore(redis.NewFromCmdable(&mockCmdable{data: map[string]string{}}, "test")),
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, found, err := store.Get(ctx, KeyToken)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Set(ctx, KeyToken, []byte("tok-1")))
			require.NoError(t, store.Set(ctx, KeyToken, []byte("tok-2")))
			token, found, err := GetString(ctx, store, KeyToken)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "tok-2", token, "set overwrites")

			cart := []types.CartLineItem{{ID: "a1", Title: "Dusk", UnitPrice: 10000, Quantity: 2}}
			require.NoError(t, SetJSON(ctx, store, KeyCart, cart))
			got, found, err := GetJSON[[]types.CartLineItem](ctx, store, KeyCart)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, cart, got)

			require.NoError(t, store.Delete(ctx, KeyToken, KeyUser))
			_, found, err = store.Get(ctx, KeyToken)
			require.NoError(t, err)
			assert.False(t, found)

			_, found, err = store.Get(ctx, KeyCart)
			require.NoError(t, err)
			assert.True(t, found, "deleting session keys keeps the cart")

			require.NoError(t, store.Delete(ctx))
		})
	}
}

func TestGetJSONRejectsCorruptValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyUser, []byte("{not json")))

	_, found, err := GetJSON[types.User](ctx, store, KeyUser)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestGormStoreNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := newSQLiteStore(t, "kiosk-a")
	b := NewGormStore(a.client, "kiosk-b")

	require.NoError(t, a.Set(ctx, KeyCart, []byte(`[]`)))
	_, found, err := b.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'z'

	got, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	assert.Equal(t, 1, store.Len())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{Storage: config.StorageConfig{Driver: "memory"}}
	store, closer, err := Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
	require.NoError(t, closer.Close())

	cfg = &config.Config{Storage: config.StorageConfig{Driver: "sqlite", Path: "file::memory:", Namespace: "t"}, DB: config.DBConfig{MaxOpenConns: 1}}
	store, closer, err = Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })
	require.NoError(t, store.Set(ctx, KeyCart, []byte(`[]`)))

	_, _, err = Open(ctx, &config.Config{Storage: config.StorageConfig{Driver: "etcd"}}, logger.Nop())
	assert.Error(t, err)
}

// failingStore rejects writes to one key.
type failingStore struct {
	*MemoryStore
	failKey string
}

func (f failingStore) Set(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func TestSetAllWritesEveryKey(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, KeyToken, []byte("old")))

			require.NoError(t, SetAll(ctx, store, map[string][]byte{
				KeyToken: []byte("tok"),
				KeyUser:  []byte(`{"id":"u1"}`),
			}))

			token, found, err := GetString(ctx, store, KeyToken)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "tok", token)
			_, found, err = store.Get(ctx, KeyUser)
			require.NoError(t, err)
			assert.True(t, found)
		})
	}
}

func TestSetAllLeavesNothingBehindOnFailure(t *testing.T) {
	ctx := context.Background()
	store := failingStore{MemoryStore: NewMemoryStore(), failKey: KeyUser}

	err := SetAll(ctx, store, map[string][]byte{
		KeyToken: []byte("tok"),
		KeyUser:  []byte(`{"id":"u1"}`),
	})
	require.Error(t, err)
	assert.Zero(t, store.Len(), "partial writes are undone")
}

func TestGormSetManyRollsBackOnCancelledContext(t *testing.T) {
	store := newSQLiteStore(t, "test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.SetMany(ctx, map[string][]byte{KeyToken: []byte("tok"), KeyUser: []byte("{}")})
	require.Error(t, err)

	_, found, err := store.Get(context.Background(), KeyToken)
	require.NoError(t, err)
	assert.False(t, found)
}
