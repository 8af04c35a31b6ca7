// Package tracker mirrors order state reported by the order service:
// a collection of orders, their append-only status histories, and the
// derived active/completed partitions. The tracker never judges whether
// a status change is legal; the order service is the authority.
package tracker

import (
	"sync"
	"time"

	"tiffinbox/internal/domain"
)

type Tracker struct {
	mu        sync.RWMutex
	orders    []domain.Order
	index     map[string]int
	active    []domain.Order
	completed []domain.Order
	current   *domain.Order
}

func New() *Tracker {
	return &Tracker{index: make(map[string]int)}
}

// RecordOrder inserts or replaces an order by identity and recomputes
// the partitions. New orders go to the front, most recent first.
func (t *Tracker) RecordOrder(order domain.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i, ok := t.index[order.ID]; ok {
		t.orders[i] = order
	} else {
		t.orders = append([]domain.Order{order}, t.orders...)
		t.reindex()
	}
	if t.current != nil && t.current.ID == order.ID {
		o := order
		t.current = &o
	}
	t.repartition()
}

// RecordOrders replaces the whole collection, e.g. after fetching the
// user's order list.
func (t *Tracker) RecordOrders(orders []domain.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.orders = make([]domain.Order, len(orders))
	copy(t.orders, orders)
	t.reindex()
	t.repartition()
}

// ApplyStatusChange appends a status event to the order's history and
// updates the current status. Unknown orders are a silent no-op.
func (t *Tracker) ApplyStatusChange(orderID string, status domain.OrderStatus, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[orderID]
	if !ok {
		return
	}
	now := time.Now().UTC()
	o := t.orders[i]
	o.Status = status
	o.UpdatedAt = now
	o.StatusHistory = append(o.StatusHistory, domain.OrderStatusEvent{
		Status:    status,
		Timestamp: now,
		Note:      note,
	})
	t.orders[i] = o
	if t.current != nil && t.current.ID == orderID {
		c := o
		t.current = &c
	}
	t.repartition()
}

func (t *Tracker) Get(orderID string) (domain.Order, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.index[orderID]
	if !ok {
		return domain.Order{}, false
	}
	return t.orders[i], true
}

func (t *Tracker) Orders() []domain.Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyOrders(t.orders)
}

// Active returns orders whose status is not terminal.
func (t *Tracker) Active() []domain.Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyOrders(t.active)
}

// Completed returns orders in a terminal status.
func (t *Tracker) Completed() []domain.Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyOrders(t.completed)
}

// SetCurrentOrder focuses one order, independent of the collection.
func (t *Tracker) SetCurrentOrder(order domain.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o := order
	t.current = &o
}

func (t *Tracker) CurrentOrder() (domain.Order, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return domain.Order{}, false
	}
	return *t.current, true
}

func (t *Tracker) ClearCurrentOrder() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = nil
}

func (t *Tracker) reindex() {
	t.index = make(map[string]int, len(t.orders))
	for i := range t.orders {
		t.index[t.orders[i].ID] = i
	}
}

func (t *Tracker) repartition() {
	t.active = t.active[:0]
	t.completed = t.completed[:0]
	for _, o := range t.orders {
		if o.Status.IsTerminal() {
			t.completed = append(t.completed, o)
		} else {
			t.active = append(t.active, o)
		}
	}
}

func copyOrders(in []domain.Order) []domain.Order {
	out := make([]domain.Order, len(in))
	copy(out, in)
	return out
}
