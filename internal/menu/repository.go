// Package menu is the catalog: menu items loaded from a flat JSON
// file, seeded with defaults on first run.
package menu

import (
	"fmt"
	"strings"
	"sync"

	"tiffinbox/internal/domain"
	"tiffinbox/internal/storage"
)

type Repository struct {
	mu    sync.RWMutex
	items []domain.MenuItem
	byID  map[string]int
}

// NewRepository loads the catalog from path. An empty catalog is
// replaced with the seed menu and written back.
func NewRepository(path string) (*Repository, error) {
	items, err := storage.ReadSlice[domain.MenuItem](path)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	if len(items) == 0 {
		items = seedMenu()
		if err := storage.WriteSlice(path, items); err != nil {
			return nil, fmt.Errorf("seed menu: %w", err)
		}
	}
	return newFromItems(items), nil
}

// NewFromItems builds an in-memory catalog, used in tests.
func NewFromItems(items []domain.MenuItem) *Repository {
	return newFromItems(items)
}

func newFromItems(items []domain.MenuItem) *Repository {
	r := &Repository{items: items, byID: make(map[string]int, len(items))}
	for i := range items {
		r.byID[items[i].ID] = i
	}
	return r
}

// List returns all items, optionally filtered by category. Unavailable
// items are included so clients can render them as sold out.
func (r *Repository) List(category string) []domain.MenuItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.MenuItem, 0, len(r.items))
	for _, it := range r.items {
		if category != "" && !strings.EqualFold(it.Category, category) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (r *Repository) Get(id string) (domain.MenuItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return domain.MenuItem{}, false
	}
	return r.items[i], true
}

// ExtraPrice resolves a customization choice's price for a menu item.
// Satisfies the cart engine's ExtraPricer.
func (r *Repository) ExtraPrice(menuItemID, extraID string) (float64, bool) {
	item, ok := r.Get(menuItemID)
	if !ok {
		return 0, false
	}
	for _, opt := range item.Customizations {
		for _, choice := range opt.Choices {
			if choice.ID == extraID {
				return choice.Price, true
			}
		}
	}
	return 0, false
}
