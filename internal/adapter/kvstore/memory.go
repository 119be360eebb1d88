// Package kvstore provides the string key-value stores that back the
// flood snapshot cache.
package kvstore

import (
	"context"
	"sync"
)

// Memory is a process-local store, used in tests and when persistence is
// not wanted.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

// Get returns the value stored under key and whether it was present.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.entries[key] = value
	m.mu.Unlock()
	return nil
}

// SetMulti stores all entries under a single lock so readers never observe
// a partial write.
func (m *Memory) SetMulti(_ context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}
