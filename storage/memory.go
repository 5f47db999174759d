package storage

import (
	"context"
	"sync"

	"github.com/tm9657/jwk-vault/interfaces"
)

// MemoryKV is an in-memory record store for tests and local development.
type MemoryKV struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryKV creates an empty in-memory record store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{records: make(map[string][]byte)}
}

// Get retrieves the raw record for a key.
func (b *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, ok := b.records[key]
	if !ok {
		return nil, interfaces.ErrRecordNotFound
	}
	return value, nil
}

// PutIfAbsent stores value only if no record exists for key.
func (b *MemoryKV) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.records[key]; ok {
		return false, nil
	}
	b.records[key] = value
	return true, nil
}

// Delete removes the record for a key, if present.
func (b *MemoryKV) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.records, key)
	return nil
}

// Available always reports true for the in-memory store.
func (b *MemoryKV) Available(ctx context.Context) bool { return true }

// Name returns a unique identifier for this storage backend.
func (b *MemoryKV) Name() string { return "memory-kv" }

// LocationURI returns the URI that identifies this storage backend.
func (b *MemoryKV) LocationURI() string { return "mem://" }

// MemoryDistribution is an in-memory distribution store for tests and local
// development.
type MemoryDistribution struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryDistribution creates an empty in-memory distribution store.
func NewMemoryDistribution() *MemoryDistribution {
	return &MemoryDistribution{objects: make(map[string][]byte)}
}

// Put stores data under path.
func (b *MemoryDistribution) Put(ctx context.Context, path string, data []byte, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[path] = data
	return nil
}

// Delete removes the object at path, if present.
func (b *MemoryDistribution) Delete(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, path)
	return nil
}

// Object returns the stored object, for test assertions.
func (b *MemoryDistribution) Object(path string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.objects[path]
	return data, ok
}

// Available always reports true for the in-memory store.
func (b *MemoryDistribution) Available(ctx context.Context) bool { return true }

// Name returns a unique identifier for this storage backend.
func (b *MemoryDistribution) Name() string { return "memory-distribution" }

// LocationURI returns the URI that identifies this storage backend.
func (b *MemoryDistribution) LocationURI() string { return "mem://" }
