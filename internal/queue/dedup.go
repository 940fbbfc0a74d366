package queue

import (
	"sync"
	"time"
)

// dedupCache emulates broker-native deduplication (§9) for drivers
// that deliver at-least-once but have no concept of a dedup key: it
// remembers ids it has already admitted for ttl and rejects repeats.
type dedupCache struct {
	ttl time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

func newDedupCache(ttl time.Duration) *dedupCache {
	return &dedupCache{ttl: ttl, seen: make(map[string]time.Time)}
}

// admit reports whether id has not been seen within ttl, recording it
// either way.
func (c *dedupCache) admit(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictLocked()

	if _, ok := c.seen[id]; ok {
		return false
	}

	c.seen[id] = time.Now()

	return true
}

func (c *dedupCache) evictLocked() {
	cutoff := time.Now().Add(-c.ttl)
	for id, seenAt := range c.seen {
		if seenAt.Before(cutoff) {
			delete(c.seen, id)
		}
	}
}
