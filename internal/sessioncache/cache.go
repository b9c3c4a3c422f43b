// Package sessioncache remembers which user owns a session id.
//
// Entries are only hints: callers must confirm them against the user store,
// a stale entry costs one extra lookup and is never trusted on its own.
// Entries are dropped after the configured life window or when the cache is
// full, in both cases the caller falls back to the store.
package sessioncache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	Cache struct {
		cache *bigcache.BigCache
	}
)

// New returns a cache whose entries live for at most ttl and that holds
// at most maxMB megabytes (zero means unbounded).
func New(ctx context.Context, ttl time.Duration, maxMB int) (*Cache, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.HardMaxCacheSize = maxMB
	cfg.Verbose = false
	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sessioncache: unable to create cache, cause %w", err)
	}
	return &Cache{cache: cache}, nil
}

func (c *Cache) Save(_ context.Context, sessionID string, userID int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(userID))
	return c.cache.Set(sessionID, buf[:])
}

func (c *Cache) Lookup(_ context.Context, sessionID string) (int64, bool, error) {
	buf, err := c.cache.Get(sessionID)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	if len(buf) != 8 {
		return 0, false, nil
	}
	return int64(binary.BigEndian.Uint64(buf)), true, nil
}

func (c *Cache) Forget(_ context.Context, sessionID string) error {
	err := c.cache.Delete(sessionID)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (c *Cache) Close() error {
	return c.cache.Close()
}
