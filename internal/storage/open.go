package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/angelmondragon/artmarket-storefront/pkg/config"
	"github.com/angelmondragon/artmarket-storefront/pkg/db"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/migrate"
	"github.com/angelmondragon/artmarket-storefront/pkg/redis"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the configured backend. SQL backends are migrated before use.
// The returned closer releases the underlying connection.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, io.Closer, error) {
	driver := cfg.Storage.NormalizedDriver()
	switch driver {
	case config.StorageDriverMemory:
		return NewMemoryStore(), nopCloser{}, nil

	case config.StorageDriverSQLite, config.StorageDriverPostgres:
		client, err := db.New(ctx, driver, cfg.Storage, cfg.DB, logg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := client.SQL()
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("sql handle: %w", err)
		}
		if err := migrate.Up(ctx, sqlDB, client.Dialect()); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("migrate cache schema: %w", err)
		}
		return NewGormStore(client, cfg.Storage.Namespace), client, nil

	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, cfg.Storage.Namespace, logg)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client), client, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
