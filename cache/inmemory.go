package cache

import (
	"context"
	"sync"
	"time"
)

const (
	defaultSweepInterval = 5 * time.Minute
	// DefaultMaxEntries bounds an InMemoryCache unless WithMaxEntries says otherwise.
	DefaultMaxEntries = 10_000
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryCache is a size bounded RawCache held in process memory.
// Once full, storing a new key evicts an arbitrary entry.
type InMemoryCache struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int

	sweepInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
}

// InMemoryOption configures an InMemoryCache.
type InMemoryOption func(*InMemoryCache)

// WithMaxEntries caps the number of entries held, values below one are ignored.
func WithMaxEntries(n int) InMemoryOption {
	return func(c *InMemoryCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithSweepInterval sets how often expired entries are removed in the background.
func WithSweepInterval(d time.Duration) InMemoryOption {
	return func(c *InMemoryCache) {
		if d > 0 {
			c.sweepInterval = d
		}
	}
}

// NewInMemoryCache creates an in-memory cache and starts its sweeper, Close stops it.
func NewInMemoryCache(opts ...InMemoryOption) *InMemoryCache {
	c := &InMemoryCache{
		entries:       map[string]entry{},
		maxEntries:    DefaultMaxEntries,
		sweepInterval: defaultSweepInterval,
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.sweepLoop()

	return c
}

func (c *InMemoryCache) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func (c *InMemoryCache) sweep() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(time.Now()) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *InMemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		for victim := range c.entries {
			delete(c.entries, victim)
			break
		}
	}
	c.entries[key] = e
	return nil
}

// Len reports the number of entries held, expired ones not yet swept included.
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the sweeper, calling it more than once is safe.
func (c *InMemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}
