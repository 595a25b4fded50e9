// Package cache is the read-through query cache in front of the movie store.
// Entries are JSON encoded so every backend hands out private copies.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// DefaultTTL applies when a caller passes a zero TTL.
const DefaultTTL = 5 * time.Minute

// Store is a byte-oriented key/value cache with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Remember returns the cached value for key, or calls load and caches its
// result. Cache failures are logged and otherwise ignored: the loader is the
// source of truth.
func Remember[T any](ctx context.Context, store Store, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if store == nil {
		return load()
	}

	if raw, ok, err := store.Get(ctx, key); err != nil {
		slog.Warn("cache read failed", "key", key, "error", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		slog.Warn("cache entry undecodable", "key", key)
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if raw, err := json.Marshal(v); err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
	} else if err := store.Set(ctx, key, raw, ttl); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}

// Invalidate drops every key under the given prefixes.
func Invalidate(ctx context.Context, store Store, prefixes ...string) {
	if store == nil {
		return
	}
	for _, p := range prefixes {
		if err := store.DeletePrefix(ctx, p); err != nil {
			slog.Warn("cache invalidation failed", "prefix", p, "error", err)
		}
	}
}
