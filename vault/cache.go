package vault

import (
	"sync"

	"github.com/tm9657/jwk-vault/interfaces"
)

// MemoryCache is a process-local read-through cache of raw serialized
// records. Entries are inserted when a record is loaded from the backing
// store, removed when the record is deleted, and never updated in place.
//
// The cache is unbounded for the process lifetime and carries no
// cross-instance coherence. That is safe because records are immutable:
// a cached value can only become invalid through a delete, which removes it.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[interfaces.RecordID][]byte
}

// NewMemoryCache creates an empty record cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[interfaces.RecordID][]byte)}
}

// Get returns the cached raw record, if present.
func (c *MemoryCache) Get(id interfaces.RecordID) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	raw, ok := c.entries[id]
	return raw, ok
}

// Put inserts a raw record loaded from the backing store.
func (c *MemoryCache) Put(id interfaces.RecordID, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = raw
}

// Remove invalidates the entry for a deleted record.
func (c *MemoryCache) Remove(id interfaces.RecordID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// NopCache disables caching; every load goes to the backing store.
// Useful in tests and in multi-instance deployments where even the
// single-instance optimization is unwanted.
type NopCache struct{}

func (NopCache) Get(id interfaces.RecordID) ([]byte, bool) { return nil, false }
func (NopCache) Put(id interfaces.RecordID, raw []byte)    {}
func (NopCache) Remove(id interfaces.RecordID)             {}
