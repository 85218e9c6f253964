package cache

import "sync"

type memoryKV struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryKV returns an in-process KeyValue. This is the default backend and
// the one tests use; deployments with a shared browser-style local store can
// plug their own.
func NewMemoryKV() KeyValue {
	return &memoryKV{entries: map[string]string{}}
}

func (m *memoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *memoryKV) Set(key string, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

func (m *memoryKV) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}
