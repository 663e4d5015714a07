package repository

import (
	"context"
	"sync"
)

// memoryKVStore, KeyValueStore'un bellek içi implementasyonu.
// Testlerde ve DATABASE_PATH=":memory:" olmadan hızlı deneme için kullanılır.
type memoryKVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKeyValueStore, boş bir bellek içi store oluşturur.
func NewMemoryKeyValueStore() KeyValueStore {
	return &memoryKVStore{data: make(map[string]string)}
}

func (m *memoryKVStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKVStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

func (m *memoryKVStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}
