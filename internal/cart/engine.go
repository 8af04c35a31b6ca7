// Package cart implements the cart engine: a collection of line items
// keyed by (menu item, customization) with derived pricing, persisted
// write-through to an external snapshot store.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"tiffinbox/internal/common/logger"
	"tiffinbox/internal/domain"
)

// MaxQuantity is the per-line quantity ceiling.
const MaxQuantity = 10

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrQuantityTooLarge = fmt.Errorf("quantity exceeds the per-item limit of %d", MaxQuantity)
)

// Engine owns one user's cart snapshot. Operations are synchronous and
// recompute derived totals before returning; only the write-through to
// the store happens in the background. The engine is meant to be driven
// by a single session, not shared between goroutines.
type Engine struct {
	ownerID string
	snap    domain.CartSnapshot
	store   Store
	pricer  ExtraPricer
	lg      *logger.Logger
	sfg     singleflight.Group

	persistTimeout time.Duration
}

func NewEngine(ownerID string, store Store, pricer ExtraPricer, lg *logger.Logger) *Engine {
	if lg == nil {
		lg = logger.New("cart-engine")
	}
	return &Engine{
		ownerID:        ownerID,
		store:          store,
		pricer:         pricer,
		lg:             lg,
		persistTimeout: 2 * time.Second,
	}
}

// Load rehydrates the snapshot from the store. Concurrent loads for the
// same owner collapse into one store read. A missing or unreadable
// snapshot yields an empty cart; the in-memory state stays authoritative
// either way.
func (e *Engine) Load(ctx context.Context) error {
	_, err, _ := e.sfg.Do(e.ownerID, func() (any, error) {
		items, err := e.store.Load(ctx, e.ownerID)
		if err != nil {
			if errors.Is(err, ErrSnapshotNotFound) {
				e.snap = domain.CartSnapshot{}
				return nil, nil
			}
			if errors.Is(err, ErrSnapshotCorrupt) {
				e.lg.Error("cart_snapshot_corrupt", err, map[string]any{"owner_id": e.ownerID})
				e.snap = domain.CartSnapshot{}
				return nil, nil
			}
			return nil, fmt.Errorf("load cart snapshot: %w", err)
		}
		e.snap.Items = items
		e.recalculate()
		return nil, nil
	})
	return err
}

// Snapshot returns a copy of the current cart state.
func (e *Engine) Snapshot() domain.CartSnapshot {
	snap := e.snap
	snap.Items = make([]domain.CartLineItem, len(e.snap.Items))
	copy(snap.Items, e.snap.Items)
	return snap
}

// AddItem merges the quantity into an existing matching line or appends
// a new one. The merged quantity is capped silently at MaxQuantity.
func (e *Engine) AddItem(menuItem domain.MenuItem, quantity int, cust *domain.Customization) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	idx := e.findLine(menuItem.ID, cust)
	if idx >= 0 {
		quantity += e.snap.Items[idx].Quantity
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}
	line := e.buildLine(menuItem, quantity, cust)
	if idx >= 0 {
		e.snap.Items[idx] = line
	} else {
		e.snap.Items = append(e.snap.Items, line)
	}
	e.recalculate()
	e.persist()
	return nil
}

// SetQuantity sets the matching line to the given quantity, removing it
// when the quantity drops to zero or below. Unknown lines are a no-op.
func (e *Engine) SetQuantity(menuItemID string, cust *domain.Customization, quantity int) error {
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	idx := e.findLine(menuItemID, cust)
	if idx < 0 {
		return nil
	}
	if quantity <= 0 {
		e.removeAt(idx)
	} else {
		line := e.snap.Items[idx]
		e.snap.Items[idx] = e.buildLine(line.MenuItem, quantity, line.Customization)
	}
	e.recalculate()
	e.persist()
	return nil
}

// IncrementQuantity bumps the matching line by one. At MaxQuantity the
// call is a no-op with no persistence write.
func (e *Engine) IncrementQuantity(menuItemID string, cust *domain.Customization) {
	idx := e.findLine(menuItemID, cust)
	if idx < 0 {
		return
	}
	line := e.snap.Items[idx]
	if line.Quantity+1 > MaxQuantity {
		return
	}
	e.snap.Items[idx] = e.buildLine(line.MenuItem, line.Quantity+1, line.Customization)
	e.recalculate()
	e.persist()
}

// DecrementQuantity lowers the matching line by one, removing it when
// the quantity would reach zero.
func (e *Engine) DecrementQuantity(menuItemID string, cust *domain.Customization) {
	idx := e.findLine(menuItemID, cust)
	if idx < 0 {
		return
	}
	line := e.snap.Items[idx]
	if line.Quantity-1 <= 0 {
		e.removeAt(idx)
	} else {
		e.snap.Items[idx] = e.buildLine(line.MenuItem, line.Quantity-1, line.Customization)
	}
	e.recalculate()
	e.persist()
}

// RemoveItem drops the matching line unconditionally; unknown lines are
// a no-op.
func (e *Engine) RemoveItem(menuItemID string, cust *domain.Customization) {
	idx := e.findLine(menuItemID, cust)
	if idx < 0 {
		return
	}
	e.removeAt(idx)
	e.recalculate()
	e.persist()
}

// ApplyPromoCode stores the code and the computed discount. With a
// positive percentage the discount is subtotal*pct/100 capped by
// amount; otherwise the flat amount. Either way the result is clamped
// into [0, subtotal].
func (e *Engine) ApplyPromoCode(code string, amount, percentage float64) {
	e.snap.PromoCode = code
	discount := amount
	if percentage > 0 {
		discount = min(e.snap.Subtotal*percentage/100, amount)
	}
	discount = min(discount, e.snap.Subtotal)
	if discount < 0 {
		discount = 0
	}
	e.snap.DiscountAmount = discount
}

func (e *Engine) RemovePromoCode() {
	e.snap.PromoCode = ""
	e.snap.DiscountAmount = 0
}

func (e *Engine) SetDeliveryFee(fee float64) {
	e.snap.DeliveryFee = fee
}

// Clear empties the cart and resets promo state, writing the empty
// snapshot through to the store.
func (e *Engine) Clear() {
	e.snap = domain.CartSnapshot{DeliveryFee: e.snap.DeliveryFee}
	e.clearStore()
}

func (e *Engine) findLine(menuItemID string, cust *domain.Customization) int {
	for i := range e.snap.Items {
		if e.snap.Items[i].Matches(menuItemID, cust) {
			return i
		}
	}
	return -1
}

func (e *Engine) buildLine(item domain.MenuItem, quantity int, cust *domain.Customization) domain.CartLineItem {
	unit := UnitPrice(e.pricer, item, cust)
	return domain.CartLineItem{
		MenuItem:      item,
		Quantity:      quantity,
		Customization: cust,
		TotalPrice:    unit * float64(quantity),
	}
}

func (e *Engine) removeAt(idx int) {
	e.snap.Items = append(e.snap.Items[:idx], e.snap.Items[idx+1:]...)
}

// recalculate rebuilds the derived totals from the items. The discount
// cap against the subtotal is re-applied here so the invariant
// discount <= subtotal holds after removals too.
func (e *Engine) recalculate() {
	total := 0
	subtotal := 0.0
	for i := range e.snap.Items {
		total += e.snap.Items[i].Quantity
		subtotal += e.snap.Items[i].TotalPrice
	}
	e.snap.TotalItems = total
	e.snap.Subtotal = subtotal
	if e.snap.DiscountAmount > subtotal {
		e.snap.DiscountAmount = subtotal
	}
}

// persist writes the current items through to the store without
// blocking the caller. Failures are logged; the in-memory snapshot is
// authoritative and is never rolled back.
func (e *Engine) persist() {
	items := make([]domain.CartLineItem, len(e.snap.Items))
	copy(items, e.snap.Items)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
		defer cancel()
		if err := e.store.Save(ctx, e.ownerID, items); err != nil {
			e.lg.Error("cart_persist_failed", err, map[string]any{"owner_id": e.ownerID})
		}
	}()
}

func (e *Engine) clearStore() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
		defer cancel()
		if err := e.store.Clear(ctx, e.ownerID); err != nil {
			e.lg.Error("cart_clear_failed", err, map[string]any{"owner_id": e.ownerID})
		}
	}()
}
