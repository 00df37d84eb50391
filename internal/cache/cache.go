package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"topic-scout/internal/domain"
)

type entry struct {
	value   any
	written time.Time
}

// TTLCache is the in-process metadata cache: a size-bounded LRU whose
// entries expire after the configured TTL. Safe for concurrent use.
type TTLCache struct {
	lru *expirable.LRU[string, entry]
}

// New creates a TTLCache holding at most size entries for at most ttl.
func New(size int, ttl time.Duration) *TTLCache {
	return &TTLCache{
		lru: expirable.NewLRU[string, entry](size, nil, ttl),
	}
}

func (c *TTLCache) Get(key string) (any, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *TTLCache) Set(key string, value any) {
	c.lru.Add(key, entry{value: value, written: time.Now()})
}

// IsFresh reports whether key exists and was written within maxAge. An
// entry can be present but stale when maxAge is tighter than the cache TTL.
func (c *TTLCache) IsFresh(key string, maxAge time.Duration) bool {
	e, ok := c.lru.Get(key)
	if !ok {
		return false
	}
	return time.Since(e.written) < maxAge
}

// Len returns the number of live entries.
func (c *TTLCache) Len() int {
	return c.lru.Len()
}

var _ domain.MetadataCache = (*TTLCache)(nil)
