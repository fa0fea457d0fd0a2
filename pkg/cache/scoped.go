package cache

import (
	"fmt"
	"sync"
	"time"
)

// ScopedCache is an in-memory TTL cache with versioned scopes. Entries
// are stored under a key that embeds the scope's current version, so
// invalidating a scope is a version bump: stale entries become
// unreachable immediately and are reclaimed by the cleanup loop. This
// keeps invalidation O(1) and confined to one (store, date) scope
// instead of flushing the whole namespace.
type ScopedCache struct {
	mu       sync.RWMutex
	entries  map[string]entry
	versions map[string]uint64
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

type entry struct {
	value     any
	createdAt time.Time
}

func NewScopedCache(ttl time.Duration) *ScopedCache {
	c := &ScopedCache{
		entries:  make(map[string]entry),
		versions: make(map[string]uint64),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}

	go c.cleanup()

	return c
}

func (c *ScopedCache) Get(scope, key string) (any, bool) {
	c.mu.RLock()
	e, exists := c.entries[c.versionedKey(scope, key)]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Since(e.createdAt) > c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *ScopedCache) Set(scope, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[c.versionedKey(scope, key)] = entry{
		value:     value,
		createdAt: time.Now(),
	}
}

// Invalidate drops every entry in the scope by bumping its version.
func (c *ScopedCache) Invalidate(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[scope]++
}

// Version exposes the scope's current version for diagnostics.
func (c *ScopedCache) Version(scope string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versions[scope]
}

// versionedKey must be called with at least a read lock held.
func (c *ScopedCache) versionedKey(scope, key string) string {
	return fmt.Sprintf("%s@%d|%s", scope, c.versions[scope], key)
}

func (c *ScopedCache) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			for key, e := range c.entries {
				if time.Since(e.createdAt) > c.ttl {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (c *ScopedCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}
