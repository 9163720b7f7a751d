package blamecache

import (
	"database/sql"
	"sync"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	Store *MockBlameStore
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetBlameStore implements the CacheManager interface.
func (m *MockCacheManager) GetBlameStore() contract.BlameStore {
	return m.Store
}

// mockEntry is one in-memory cache row.
type mockEntry struct {
	value     []byte
	version   int
	timestamp int64
}

// MockBlameStore is an in-memory blame store for testing.
type MockBlameStore struct {
	mu      sync.Mutex
	entries map[string]mockEntry
}

var _ contract.BlameStore = &MockBlameStore{} // Compile-time check

// NewMockBlameStore creates an empty in-memory blame store.
func NewMockBlameStore() *MockBlameStore {
	return &MockBlameStore{entries: map[string]mockEntry{}}
}

// Get retrieves a value by key from the store.
func (ms *MockBlameStore) Get(key string) ([]byte, int, int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	entry, ok := ms.entries[key]
	if !ok {
		return nil, 0, 0, sql.ErrNoRows
	}
	return entry.value, entry.version, entry.timestamp, nil
}

// Set inserts or replaces a key/value pair in the store.
func (ms *MockBlameStore) Set(key string, value []byte, version int, timestamp int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[key] = mockEntry{value: value, version: version, timestamp: timestamp}
	return nil
}

// Clear removes all entries.
func (ms *MockBlameStore) Clear() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries = map[string]mockEntry{}
	return nil
}

// Close is a no-op for the mock store.
func (ms *MockBlameStore) Close() error {
	return nil
}

// GetStatus returns status information about the mock store.
func (ms *MockBlameStore) GetStatus() (schema.CacheStatus, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return schema.CacheStatus{
		Backend:      "mock",
		Connected:    true,
		TotalEntries: len(ms.entries),
	}, nil
}
