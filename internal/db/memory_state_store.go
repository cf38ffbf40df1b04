package db

import (
	"context"
	"strings"
	"sync"
)

// MemoryStateStore is a process-local store for development and tests.
type MemoryStateStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{values: make(map[string][]byte)}
}

func (store *MemoryStateStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	payload, ok := store.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (store *MemoryStateStore) Save(_ context.Context, key string, payload []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.values[key] = append([]byte(nil), payload...)
	return nil
}

func (store *MemoryStateStore) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.values, key)
	return nil
}

func (store *MemoryStateStore) DeletePrefix(_ context.Context, prefix string) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var removed int64
	for key := range store.values {
		if key == prefix || strings.HasPrefix(key, prefix+":") {
			delete(store.values, key)
			removed++
		}
	}
	return removed, nil
}
