// Package cache keeps recent extraction results in memory so repeated
// requests for the same listing URL do not re-fetch and re-run the cascade.
// Entries expire by TTL; there is no persistence.
package cache

import (
	"sync"
	"time"

	"github.com/hyperifyio/goleilao/internal/profile"
)

type item struct {
	result  profile.Result
	expires time.Time
}

// Memory is a thread-safe TTL cache of extraction results keyed by URL.
type Memory struct {
	ttl  time.Duration
	mu   sync.RWMutex
	data map[string]item
	stop chan struct{}
	once sync.Once
}

// NewMemory builds the cache and starts its background sweep. A ttl of zero
// or less disables caching entirely: Set becomes a no-op.
func NewMemory(ttl time.Duration) *Memory {
	c := &Memory{
		ttl:  ttl,
		data: make(map[string]item),
		stop: make(chan struct{}),
	}
	if ttl > 0 {
		go c.sweep()
	}
	return c
}

// Get returns the cached result for the URL if present and unexpired.
func (c *Memory) Get(url string) (profile.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.data[url]
	if !ok || time.Now().After(it.expires) {
		return profile.Result{}, false
	}
	return it.result, true
}

// Set stores a result under its URL for the configured TTL.
func (c *Memory) Set(url string, res profile.Result) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[url] = item{result: res, expires: time.Now().Add(c.ttl)}
}

// Len reports the number of stored entries, expired ones included until the
// next sweep.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Purge drops every entry.
func (c *Memory) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]item)
}

// Close stops the background sweep. Safe to call more than once.
func (c *Memory) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Memory) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, it := range c.data {
				if now.After(it.expires) {
					delete(c.data, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
