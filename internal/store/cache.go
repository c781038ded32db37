package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// cacheEntry is the stored envelope around a cached computation.
type cacheEntry struct {
	Version   int             `json:"version,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	LogCount  int             `json:"log_count"`
	Payload   json.RawMessage `json:"payload"`
}

// Cache gates an expensive computation behind a persisted key. A cached
// value is reused while its version matches, its log count matches (a new
// workout invalidates it), and it is younger than the TTL. The mutex
// serializes callers so a second trigger waits for the in-flight compute
// instead of racing a divergent write to the same key.
type Cache struct {
	store   Store
	key     string
	ttl     time.Duration
	version int
	now     func() time.Time

	mu sync.Mutex
}

// NewCache wires a cache over one store key. Bump version whenever the
// computed value's algorithm changes, so stale payloads are discarded.
func NewCache(store Store, key string, ttl time.Duration, version int) *Cache {
	return &Cache{store: store, key: key, ttl: ttl, version: version, now: time.Now}
}

// Get loads the cached value into out, recomputing it via compute when the
// cache is missing, stale, version-mismatched or invalidated by a new log.
func (c *Cache) Get(ctx context.Context, logCount int, compute func(ctx context.Context) (any, error), out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var entry cacheEntry
	err := c.store.Get(ctx, c.key, &entry)
	if err == nil &&
		entry.Version == c.version &&
		entry.LogCount == logCount &&
		c.now().Sub(entry.Timestamp) <= c.ttl {
		if err := json.Unmarshal(entry.Payload, out); err == nil {
			return nil
		}
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("reading cache %s: %w", c.key, err)
	}

	value, err := compute(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache %s: %w", c.key, err)
	}

	entry = cacheEntry{
		Version:   c.version,
		Timestamp: c.now(),
		LogCount:  logCount,
		Payload:   payload,
	}
	if err := c.store.Set(ctx, c.key, entry); err != nil {
		return fmt.Errorf("writing cache %s: %w", c.key, err)
	}
	return json.Unmarshal(payload, out)
}

// Invalidate drops the cached value.
func (c *Cache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Remove(ctx, c.key)
}
