package session

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffinbox/internal/cart"
	"tiffinbox/internal/checkout"
	"tiffinbox/internal/common/logger"
	"tiffinbox/internal/domain"
)

type fakeAPI struct {
	created   []domain.CreateOrderRequest
	createErr error
	history   []domain.Order
}

func (f *fakeAPI) CreateOrder(_ context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if f.createErr != nil {
		return domain.Order{}, f.createErr
	}
	f.created = append(f.created, req)
	return domain.Order{
		ID:          "ord-1",
		OrderNumber: "ORD_20260830_001",
		Status:      domain.StatusPending,
		PromoCode:   req.PromoCode,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (f *fakeAPI) MyOrders(context.Context) ([]domain.Order, error) {
	return f.history, nil
}

type flatPricer struct{}

func (flatPricer) ExtraPrice(string, string) (float64, bool) { return 0, false }

func thali() domain.MenuItem {
	return domain.MenuItem{ID: "guj001", Name: "Gujarati Thali", Price: 280, IsAvailable: true}
}

func newTestSession(api OrderPlacer) *Session {
	lg := logger.NewWriter("test", new(bytes.Buffer))
	return New("user-1", cart.NewMemoryStore(), flatPricer{}, api, lg)
}

func TestPlaceOrderClearsCartAndTracks(t *testing.T) {
	api := &fakeAPI{}
	s := newTestSession(api)
	require.NoError(t, s.Cart.AddItem(thali(), 2, nil))

	order, err := s.PlaceOrder(context.Background(), checkout.Options{
		PaymentMethod:   domain.PaymentCOD,
		DeliveryAddress: "12 MG Road",
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)

	emptySnap := s.Cart.Snapshot()
	assert.True(t, emptySnap.IsEmpty())

	current, ok := s.Tracker.CurrentOrder()
	require.True(t, ok)
	assert.Equal(t, "ord-1", current.ID)
	assert.Len(t, s.Tracker.Active(), 1)

	require.Len(t, api.created, 1)
	require.Len(t, api.created[0].Items, 1)
	assert.Equal(t, "guj001", api.created[0].Items[0].MenuItemID)
	assert.Equal(t, 2, api.created[0].Items[0].Quantity)
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("backend down")}
	s := newTestSession(api)
	require.NoError(t, s.Cart.AddItem(thali(), 1, nil))

	_, err := s.PlaceOrder(context.Background(), checkout.Options{
		PaymentMethod:   domain.PaymentCOD,
		DeliveryAddress: "12 MG Road",
	})
	require.Error(t, err)

	snap := s.Cart.Snapshot()
	assert.False(t, snap.IsEmpty())
	assert.Equal(t, 1, snap.TotalItems)
	assert.Empty(t, s.Tracker.Orders())
}

func TestPlaceOrderValidation(t *testing.T) {
	s := newTestSession(&fakeAPI{})

	_, err := s.PlaceOrder(context.Background(), checkout.Options{
		PaymentMethod:   domain.PaymentCOD,
		DeliveryAddress: "12 MG Road",
	})
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)

	require.NoError(t, s.Cart.AddItem(thali(), 1, nil))
	_, err = s.PlaceOrder(context.Background(), checkout.Options{PaymentMethod: domain.PaymentCOD})
	assert.ErrorIs(t, err, checkout.ErrNoFulfilment)
}

func TestPlaceOrderCarriesPromo(t *testing.T) {
	api := &fakeAPI{}
	s := newTestSession(api)
	require.NoError(t, s.Cart.AddItem(thali(), 2, nil))
	s.Cart.ApplyPromoCode("FIRST50", 50, 0)

	order, err := s.PlaceOrder(context.Background(), checkout.Options{
		PaymentMethod:   domain.PaymentUPI,
		DeliveryAddress: "12 MG Road",
	})
	require.NoError(t, err)
	assert.Equal(t, "FIRST50", order.PromoCode)
	assert.Equal(t, "FIRST50", api.created[0].PromoCode)
	assert.Equal(t, 50.0, api.created[0].DiscountAmount)
}

func TestRestoreRehydratesOrders(t *testing.T) {
	api := &fakeAPI{history: []domain.Order{
		{ID: "ord-a", Status: domain.StatusCompleted},
		{ID: "ord-b", Status: domain.StatusPreparing},
	}}
	s := newTestSession(api)

	require.NoError(t, s.Restore(context.Background()))
	assert.Len(t, s.Tracker.Orders(), 2)
	assert.Len(t, s.Tracker.Active(), 1)
	assert.Len(t, s.Tracker.Completed(), 1)
}
