package cache

import (
	"sync"
	"time"
)

// Memory is an in-memory TTL cache. Expiry is lazy on read, with an
// optional background sweep for long-lived processes.
type Memory struct {
	mu         sync.RWMutex
	items      map[string]item
	gcInterval time.Duration
	ticker     *time.Ticker
	stopGC     chan struct{}
}

// item pairs a value with its expiration as Unix nanos; zero never expires.
type item struct {
	value      any
	expiration int64
}

// DefaultGCInterval is the sweep period used when none is supplied.
const DefaultGCInterval = 5 * time.Minute

// NewMemory creates an empty memory cache. The background sweep is not
// started automatically; it begins with the first expirable Set, or
// explicitly via StartGC.
func NewMemory(gcInterval time.Duration) *Memory {
	if gcInterval <= 0 {
		gcInterval = DefaultGCInterval
	}
	return &Memory{
		items:      make(map[string]item),
		gcInterval: gcInterval,
		stopGC:     make(chan struct{}),
	}
}

// Get returns the value for key when present and unexpired.
func (c *Memory) Get(key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if it.expiration > 0 && time.Now().UnixNano() > it.expiration {
		// Lazy expiry; the sweeper reclaims the entry later.
		return nil, false
	}
	return it.value, true
}

// Set stores value under key for ttl; zero ttl never expires.
func (c *Memory) Set(key string, value any, ttl time.Duration) error {
	var expiration int64
	if ttl > 0 {
		expiration = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = item{value: value, expiration: expiration}
	startSweep := expiration > 0 && c.ticker == nil
	c.mu.Unlock()

	if startSweep {
		c.StartGC()
	}
	return nil
}

// Delete removes key if present.
func (c *Memory) Delete(key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Flush drops every entry. External invalidation hook for callers that
// mutate the catalog out of band.
func (c *Memory) Flush() {
	c.mu.Lock()
	c.items = make(map[string]item)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included until
// the next sweep.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// StartGC begins the background expiry sweep. Idempotent.
func (c *Memory) StartGC() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker != nil {
		return
	}
	c.ticker = time.NewTicker(c.gcInterval)

	// The ticker and stop channel are passed in: StopGC replaces both
	// fields under the mutex, which the goroutine must not race with.
	go func(t *time.Ticker, stop chan struct{}) {
		for {
			select {
			case <-t.C:
				c.sweep()
			case <-stop:
				t.Stop()
				return
			}
		}
	}(c.ticker, c.stopGC)
}

// StopGC halts the background sweep. Idempotent.
func (c *Memory) StopGC() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker == nil {
		return
	}
	close(c.stopGC)
	c.ticker = nil
	c.stopGC = make(chan struct{})
}

// sweep reclaims expired entries.
func (c *Memory) sweep() {
	now := time.Now().UnixNano()
	c.mu.Lock()
	for key, it := range c.items {
		if it.expiration > 0 && now > it.expiration {
			delete(c.items, key)
		}
	}
	c.mu.Unlock()
}
