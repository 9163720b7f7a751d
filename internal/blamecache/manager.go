package blamecache

import (
	"sync"

	"github.com/statice-dev/sarq/internal/contract"
	"github.com/statice-dev/sarq/schema"
)

// BlameStoreManager manages the blame store for one configured backend.
type BlameStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.BlameStore
}

var _ contract.CacheManager = &BlameStoreManager{} // Compile-time check

// NewBlameStoreManager opens the configured backend and returns a manager
// handing out its blame store.
func NewBlameStoreManager(backend schema.DatabaseBackend, connStr string) (*BlameStoreManager, error) {
	store, err := NewBlameStore(backend, connStr)
	if err != nil {
		return nil, err
	}
	return &BlameStoreManager{store: store}, nil
}

// GetBlameStore returns the blame store.
func (mgr *BlameStoreManager) GetBlameStore() contract.BlameStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// Close closes the managed store.
func (mgr *BlameStoreManager) Close() error {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store.Close()
}
