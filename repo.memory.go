package bookshelf

import (
	"context"
	"sync"
)

var _ Persister = (*MemoryPersister)(nil)

// MemoryPersister keeps blobs in process memory. Nothing survives
// the process, it backs ephemeral sessions and tests.
type MemoryPersister struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	writes int
}

// NewMemoryPersister provides an empty in-memory blob storage.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{blobs: make(map[string][]byte)}
}

func (mp *MemoryPersister) Get(_ context.Context, key string) ([]byte, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	data, ok := mp.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

func (mp *MemoryPersister) Set(_ context.Context, key string, data []byte) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.blobs[key] = append([]byte(nil), data...)
	mp.writes++
	return nil
}

// Writes returns how many times Set was called.
func (mp *MemoryPersister) Writes() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.writes
}

func (mp *MemoryPersister) Close() error {
	return nil
}
