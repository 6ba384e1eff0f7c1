package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/logging"
)

// cacheEntry is the envelope persisted for every cached value.
// Invariant: ExpiresAt > StoredAt.
type cacheEntry struct {
	Value     json.RawMessage `json:"value"`
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Cache is a TTL wrapper over the plain tier. Expired entries are evicted
// lazily on read; Sweep can additionally purge known keys periodically.
type Cache struct {
	store *Store
	now   func() time.Time
	log   logging.Logger
}

func NewCache(store *Store, log logging.Logger) *Cache {
	return &Cache{store: store, now: time.Now, log: log.With("component", "cache")}
}

// Set stores v under key with the given time-to-live. A zero or negative
// ttl is a caller error.
func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: %s", common.ErrInvalidTTL, ttl)
	}

	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", common.ErrEncoding, key, err)
	}

	storedAt := c.now()
	return c.store.SetPlain(ctx, key, cacheEntry{
		Value:     value,
		StoredAt:  storedAt,
		ExpiresAt: storedAt.Add(ttl),
	})
}

// Get unmarshals the cached value under key into out, returning false when
// the key is absent or expired. An expired entry is purged on the spot.
func (c *Cache) Get(ctx context.Context, key string, out any) (bool, error) {
	var entry cacheEntry
	found, err := c.store.GetPlain(ctx, key, &entry)
	if err != nil || !found {
		return false, err
	}

	if c.now().After(entry.ExpiresAt) {
		if err := c.store.Remove(ctx, key); err != nil {
			c.log.Warn(ctx, "failed to evict expired entry", "key", key, "err", err)
		}
		return false, nil
	}

	if err := json.Unmarshal(entry.Value, out); err != nil {
		return false, fmt.Errorf("%w: unmarshal %s: %v", common.ErrEncoding, key, err)
	}
	return true, nil
}

// Sweep evicts any of the given keys whose entries have expired.
func (c *Cache) Sweep(ctx context.Context, keys ...string) {
	for _, key := range keys {
		var entry cacheEntry
		found, err := c.store.GetPlain(ctx, key, &entry)
		if err != nil || !found {
			continue
		}
		if c.now().After(entry.ExpiresAt) {
			if err := c.store.Remove(ctx, key); err != nil {
				c.log.Warn(ctx, "sweep eviction failed", "key", key, "err", err)
			}
		}
	}
}
