package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffinbox/internal/domain"
)

func snapshotWith(subtotal float64) domain.CartSnapshot {
	return domain.CartSnapshot{
		Items: []domain.CartLineItem{{
			MenuItem:   domain.MenuItem{ID: "guj001", Price: subtotal},
			Quantity:   1,
			TotalPrice: subtotal,
		}},
		TotalItems: 1,
		Subtotal:   subtotal,
	}
}

func TestDeliveryFee(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultDeliveryFee, DeliveryFee(100))
	assert.Equal(t, DefaultDeliveryFee, DeliveryFee(298.99))
	assert.Zero(t, DeliveryFee(FreeDeliveryThreshold))
	assert.Zero(t, DeliveryFee(1000))
}

func TestBuildRequest_Validation(t *testing.T) {
	t.Parallel()

	valid := Options{PaymentMethod: domain.PaymentUPI, DeliveryAddress: "12 MG Road"}

	tests := []struct {
		name string
		snap domain.CartSnapshot
		opts Options
		want error
	}{
		{"empty cart", domain.CartSnapshot{}, valid, ErrEmptyCart},
		{"below minimum", snapshotWith(50), valid, ErrBelowMinimumAmount},
		{"bad payment method", snapshotWith(200), Options{PaymentMethod: "BITCOIN", DeliveryAddress: "x"}, ErrInvalidPayment},
		{"no fulfilment", snapshotWith(200), Options{PaymentMethod: domain.PaymentCOD}, ErrNoFulfilment},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := BuildRequest(tc.snap, tc.opts)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuildRequest_CarriesLinesAndPromo(t *testing.T) {
	t.Parallel()

	cust := &domain.Customization{SpiceLevel: domain.SpiceHot, Extras: []string{"cheese"}}
	snap := domain.CartSnapshot{
		Items: []domain.CartLineItem{
			{MenuItem: domain.MenuItem{ID: "guj001", Price: 280}, Quantity: 2, TotalPrice: 560},
			{MenuItem: domain.MenuItem{ID: "pun001", Price: 320}, Quantity: 1, Customization: cust, TotalPrice: 355},
		},
		TotalItems:     3,
		Subtotal:       915,
		PromoCode:      "SAVE50",
		DiscountAmount: 50,
	}

	req, err := BuildRequest(snap, Options{PaymentMethod: domain.PaymentCOD, PickupTime: "19:30"})
	require.NoError(t, err)

	require.Len(t, req.Items, 2)
	assert.Equal(t, "guj001", req.Items[0].MenuItemID)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Nil(t, req.Items[0].Customization)
	assert.Equal(t, cust, req.Items[1].Customization)
	assert.Equal(t, "SAVE50", req.PromoCode)
	assert.Equal(t, 50.0, req.DiscountAmount)
	assert.Equal(t, "19:30", req.PickupTime)
}
