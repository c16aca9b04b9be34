package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process. Used in tests and single node development.
type MemoryStore struct {
	prefix string
	mu     sync.RWMutex
	keys   map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{prefix: prefix, keys: make(map[string]string)}
}

func (m *MemoryStore) Load(_ context.Context, sid string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Record{
		Token: m.keys[TokenKey(m.prefix, sid)],
		User:  m.keys[UserKey(m.prefix, sid)],
	}, nil
}

func (m *MemoryStore) Save(_ context.Context, sid string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[TokenKey(m.prefix, sid)] = rec.Token
	m.keys[UserKey(m.prefix, sid)] = rec.User
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, TokenKey(m.prefix, sid))
	delete(m.keys, UserKey(m.prefix, sid))
	return nil
}

// Has reports whether key is currently persisted.
func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.keys[key]
	return ok
}

// Put writes a raw key. Tests use it to plant corrupt records.
func (m *MemoryStore) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = value
}

func (m *MemoryStore) Close() error {
	return nil
}
