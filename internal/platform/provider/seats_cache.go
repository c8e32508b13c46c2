package provider

import (
	"context"
	"sync"
	"time"
)

type seatsCacheEntry struct {
	cachedAt time.Time
	seats    []string
}

// SeatsCache is a process-local, TTL-bound cache of free seats per event.
// It is intentionally a plain mutex-guarded map, not an LRU and not backed
// by Redis: the spec scopes it to a single process instance, and freshness
// is governed purely by TTL expiry, never by eviction pressure.
type SeatsCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]seatsCacheEntry
	client  *Client
}

// NewSeatsCache builds a cache fetching misses through client, with entries
// considered fresh for ttl.
func NewSeatsCache(client *Client, ttl time.Duration) *SeatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SeatsCache{
		ttl:     ttl,
		entries: make(map[string]seatsCacheEntry),
		client:  client,
	}
}

// Get returns the free seats for eventID, serving a cached value when it is
// younger than the configured TTL and otherwise fetching from the provider.
// A fetch error is returned as-is and never cached.
func (c *SeatsCache) Get(ctx context.Context, eventID string) ([]string, error) {
	c.mu.Lock()
	entry, found := c.entries[eventID]
	c.mu.Unlock()

	if found && time.Since(entry.cachedAt) < c.ttl {
		return entry.seats, nil
	}

	seats, err := c.client.GetEventSeats(ctx, eventID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[eventID] = seatsCacheEntry{cachedAt: time.Now(), seats: seats}
	c.mu.Unlock()

	return seats, nil
}

// Invalidate drops any cached entry for eventID, forcing the next Get to
// fetch fresh data. Called after a successful register/unregister so the
// next seat lookup does not serve a stale seat list.
func (c *SeatsCache) Invalidate(eventID string) {
	c.mu.Lock()
	delete(c.entries, eventID)
	c.mu.Unlock()
}
