// Package cache persists the last known wallet state so status output can
// fall back to cached data when the RPC endpoints are unreachable.
package cache

import (
	"sync"
	"time"
)

// DefaultStaleness is the duration after which cached entries are considered stale.
const DefaultStaleness = 5 * time.Minute

// Entry is a single cached wallet snapshot.
type Entry struct {
	ChainID   string    `json:"chain_id"`
	Address   string    `json:"address"`
	Balance   string    `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Age returns how long ago the entry was recorded.
func (e Entry) Age() time.Duration {
	return time.Since(e.UpdatedAt)
}

// IsStale reports whether the entry is older than staleness.
func (e Entry) IsStale(staleness time.Duration) bool {
	return e.Age() > staleness
}

// StateCache stores wallet snapshots keyed by chain and address.
type StateCache struct {
	mu      sync.RWMutex     `json:"-"`
	Entries map[string]Entry `json:"entries"`
}

// NewStateCache creates an empty cache.
func NewStateCache() *StateCache {
	return &StateCache{
		Entries: make(map[string]Entry),
	}
}

// Key generates the cache key for a chain and address pair.
func Key(chainID, address string) string {
	return chainID + ":" + address
}

// Get retrieves a cached entry. Returns the entry, whether it exists, and its age.
func (c *StateCache) Get(chainID, address string) (*Entry, bool, time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.Entries[Key(chainID, address)]
	if !exists {
		return nil, false, 0
	}

	age := time.Since(entry.UpdatedAt)
	return &entry, true, age
}

// Latest returns the most recently updated entry, if any.
func (c *StateCache) Latest() (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var latest *Entry
	for key := range c.Entries {
		entry := c.Entries[key]
		if latest == nil || entry.UpdatedAt.After(latest.UpdatedAt) {
			latest = &entry
		}
	}

	if latest == nil {
		return nil, false
	}
	return latest, true
}

// Set stores an entry, stamping it with the current time.
func (c *StateCache) Set(entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.UpdatedAt = time.Now()
	c.Entries[Key(entry.ChainID, entry.Address)] = entry
}

// Delete removes an entry.
func (c *StateCache) Delete(chainID, address string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.Entries, Key(chainID, address))
}

// Clear removes all entries.
func (c *StateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Entries = make(map[string]Entry)
}

// Size returns the number of entries.
func (c *StateCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.Entries)
}

// Prune removes entries older than maxAge and returns how many were removed.
func (c *StateCache) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxAge)

	for key, entry := range c.Entries {
		if entry.UpdatedAt.Before(cutoff) {
			delete(c.Entries, key)
			removed++
		}
	}

	return removed
}
