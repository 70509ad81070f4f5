// Package storage is the durable client cache that survives restarts. It
// holds the session token, the signed-in user and the local cart as JSON
// strings under fixed keys.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/multierr"
)

// Keys persisted by the storefront.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyCart  = "cart"
)

// Store is a string-keyed byte cache.
type Store interface {
	// Get returns found=false with a nil error when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// batchSetter is implemented by backends that can write several keys
// atomically.
type batchSetter interface {
	SetMany(ctx context.Context, entries map[string][]byte) error
}

// SetAll writes every entry or none of them. Backends without batch writes
// get the keys set one by one, and the ones already written are deleted
// again when a later write fails.
func SetAll(ctx context.Context, s Store, entries map[string][]byte) error {
	if b, ok := s.(batchSetter); ok {
		return b.SetMany(ctx, entries)
	}
	written := make([]string, 0, len(entries))
	for key, value := range entries {
		if err := s.Set(ctx, key, value); err != nil {
			if len(written) > 0 {
				err = multierr.Append(err, s.Delete(ctx, written...))
			}
			return err
		}
		written = append(written, key)
	}
	return nil
}

// GetJSON decodes the value stored at key into T.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var out T
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return out, false, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, true, nil
}

// SetJSON encodes value and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// GetString reads a raw string value such as the token.
func GetString(ctx context.Context, s Store, key string) (string, bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return "", false, err
	}
	return string(raw), true, nil
}
