// Package session ties the device-side pieces together: the cart, the
// checkout hand-off, the API client and the order tracker.
package session

import (
	"context"
	"fmt"

	"tiffinbox/internal/cart"
	"tiffinbox/internal/checkout"
	"tiffinbox/internal/common/logger"
	"tiffinbox/internal/domain"
	"tiffinbox/internal/tracker"
)

// OrderPlacer is what the session needs from the API client.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	MyOrders(ctx context.Context) ([]domain.Order, error)
}

type Session struct {
	Cart    *cart.Engine
	Tracker *tracker.Tracker

	api OrderPlacer
	lg  *logger.Logger
}

func New(ownerID string, store cart.Store, pricer cart.ExtraPricer, api OrderPlacer, lg *logger.Logger) *Session {
	if lg == nil {
		lg = logger.New("session")
	}
	return &Session{
		Cart:    cart.NewEngine(ownerID, store, pricer, lg),
		Tracker: tracker.New(),
		api:     api,
		lg:      lg,
	}
}

// Restore rehydrates the cart and the order history from their stores.
func (s *Session) Restore(ctx context.Context) error {
	if err := s.Cart.Load(ctx); err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	orders, err := s.api.MyOrders(ctx)
	if err != nil {
		return fmt.Errorf("restore orders: %w", err)
	}
	s.Tracker.RecordOrders(orders)
	return nil
}

// PlaceOrder turns the current cart into an order. On success the cart
// is cleared and the new order becomes the tracked one; on failure the
// cart is left untouched.
func (s *Session) PlaceOrder(ctx context.Context, opts checkout.Options) (domain.Order, error) {
	req, err := checkout.BuildRequest(s.Cart.Snapshot(), opts)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}

	s.Tracker.RecordOrder(order)
	s.Tracker.SetCurrentOrder(order)
	s.Cart.Clear()
	s.lg.Info("order_placed", map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"final_amount": order.FinalAmount,
	})
	return order, nil
}
