package cart

import (
	"context"
	"sync"

	"tiffinbox/internal/domain"
)

// MemoryStore is an in-process Store, used in tests and single-node
// setups that do not run redis.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLineItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]domain.CartLineItem)}
}

func (m *MemoryStore) Load(_ context.Context, ownerID string) ([]domain.CartLineItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items, ok := m.carts[ownerID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	out := make([]domain.CartLineItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, ownerID string, items []domain.CartLineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make([]domain.CartLineItem, len(items))
	copy(saved, items)
	m.carts[ownerID] = saved
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, ownerID)
	return nil
}
