package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache is a process local, typed key/value store with per entry TTL.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration) bool
	Delete(ctx context.Context, key string)
}

type Config struct {
	// MaxEntries bounds the store; every entry costs 1.
	MaxEntries  int64
	NumCounters int64
	BufferItems int64
}

// DefaultConfig sizes the store for a small fleet of robots.
func DefaultConfig() Config {
	return Config{
		MaxEntries:  1 << 10,
		NumCounters: 1 << 14,
		BufferItems: 64,
	}
}

var _ Cache[string] = (*Ristretto[string])(nil)

type Ristretto[V any] struct {
	store *ristretto.Cache
}

func New[V any](config Config) (*Ristretto[V], error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxEntries,
		BufferItems: config.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto[V]{store: store}, nil
}

func (c *Ristretto[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	if ctx.Err() != nil {
		return zero, false
	}
	raw, found := c.store.Get(key)
	if !found {
		return zero, false
	}
	value, ok := raw.(V)
	return value, ok
}

// Set blocks until the value is visible to Get. A zero ttl never expires.
// It returns false when ristretto drops the write.
func (c *Ristretto[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	accepted := c.store.SetWithTTL(key, value, 1, ttl)
	c.store.Wait()
	return accepted
}

func (c *Ristretto[V]) Delete(ctx context.Context, key string) {
	if ctx.Err() == nil {
		c.store.Del(key)
	}
}

func (c *Ristretto[V]) Close() {
	c.store.Close()
}
