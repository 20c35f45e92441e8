// Package storage provides the synchronous key-value backends the
// store persists its snapshots into. A backend holds opaque byte
// values under string keys; writes overwrite the prior value whole.
package storage

import "sync"

// Backend is a synchronous key-value byte store. Get returns nil with
// no error when the key has never been written.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Memory is an in-process backend, used in tests and for ephemeral
// sessions.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns the stored value for key, or nil if absent.
func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put stores value under key, replacing any prior value.
func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Close is a no-op for the in-memory backend.
func (m *Memory) Close() error {
	return nil
}
