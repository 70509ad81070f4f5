package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/artmarket-storefront/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheEntry maps a row of the cache_entries table created by pkg/migrate.
type CacheEntry struct {
	Namespace string    `gorm:"column:namespace;primaryKey"`
	CacheKey  string    `gorm:"column:cache_key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (CacheEntry) TableName() string { return "cache_entries" }

// GormStore persists entries in sqlite or postgres.
type GormStore struct {
	client    *db.Client
	namespace string
	now       func() time.Time
}

// NewGormStore binds the store to a migrated connection. The namespace lets
// several storefront profiles share one database.
func NewGormStore(client *db.Client, namespace string) *GormStore {
	return &GormStore{client: client, namespace: namespace, now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry CacheEntry
	err := s.client.DB().WithContext(ctx).
		Where("namespace = ? AND cache_key = ?", s.namespace, key).
		Take(&entry).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	return []byte(entry.Value), true, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	return s.upsert(s.client.DB().WithContext(ctx), key, value)
}

// SetMany writes every entry in one transaction.
func (s *GormStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		for key, value := range entries {
			if err := s.upsert(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) upsert(conn *gorm.DB, key string, value []byte) error {
	entry := CacheEntry{
		Namespace: s.namespace,
		CacheKey:  key,
		Value:     string(value),
		UpdatedAt: s.now().UTC(),
	}
	err := conn.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).
		Error
	if err != nil {
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.client.DB().WithContext(ctx).
		Where("namespace = ? AND cache_key IN ?", s.namespace, keys).
		Delete(&CacheEntry{}).
		Error
	if err != nil {
		return fmt.Errorf("delete cache entries: %w", err)
	}
	return nil
}
