// Package mdq implements the MDQ (Metadata Query) client (C4, spec.md
// §4.4): per-entity metadata fetch with a verified, bounded, TTL-evicting
// cache and single-flight coalescing of concurrent fetches for the same
// entity.
package mdq

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ScottyLabs/terrier/internal/samlxml"
)

const (
	// CacheCapacity bounds the number of distinct entities cached at once.
	CacheCapacity = 1000
	// CacheTTL is how long a cached entry is trusted before being
	// re-fetched, measured from fetch time (Open Question 2, resolved:
	// TTL is time-since-fetch, not time-since-last-access).
	CacheTTL = 1 * time.Hour
)

type cacheEntry struct {
	descriptor *samlxml.EntityDescriptor
	fetchedAt  time.Time
}

// cache wraps an LRU of bounded capacity with an explicit fetchedAt-based
// TTL check, since the LRU's own recency bookkeeping tracks access order,
// not fetch time.
type cache struct {
	lru *lru.Cache[string, cacheEntry]
}

func newCache(capacity int) *cache {
	l, err := lru.New[string, cacheEntry](capacity)
	if err != nil {
		// Only returns an error for a non-positive capacity, which is a
		// programmer error, not a runtime condition.
		panic(err)
	}
	return &cache{lru: l}
}

func (c *cache) get(entityID string) (*samlxml.EntityDescriptor, bool) {
	entry, ok := c.lru.Get(entityID)
	if !ok {
		return nil, false
	}
	if time.Since(entry.fetchedAt) > CacheTTL {
		c.lru.Remove(entityID)
		return nil, false
	}
	return entry.descriptor, true
}

func (c *cache) set(entityID string, descriptor *samlxml.EntityDescriptor) {
	c.lru.Add(entityID, cacheEntry{descriptor: descriptor, fetchedAt: time.Now()})
}
