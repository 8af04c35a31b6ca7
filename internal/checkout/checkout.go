// Package checkout transforms a cart snapshot into an order-creation
// request for the order service.
package checkout

import (
	"errors"
	"fmt"

	"tiffinbox/internal/domain"
)

const (
	DefaultDeliveryFee    = 30.0
	FreeDeliveryThreshold = 299.0
	MinOrderAmount        = 99.0
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrBelowMinimumAmount = fmt.Errorf("order subtotal is below the minimum of %.0f", MinOrderAmount)
	ErrInvalidPayment     = errors.New("unknown payment method")
	ErrNoFulfilment       = errors.New("either a delivery address or a pickup time is required")
)

// Options carries the checkout details the cart itself does not know.
type Options struct {
	PaymentMethod   domain.PaymentMethod
	DeliveryAddress string
	PickupTime      string
	SpecialNote     string
}

// DeliveryFee returns the fee for a delivery order at the given
// subtotal. Orders above the threshold ship free.
func DeliveryFee(subtotal float64) float64 {
	if subtotal >= FreeDeliveryThreshold {
		return 0
	}
	return DefaultDeliveryFee
}

// BuildRequest validates the snapshot and produces the order-creation
// request. Line prices are not carried over; the order service freezes
// prices from its own catalog.
func BuildRequest(snap domain.CartSnapshot, opts Options) (domain.CreateOrderRequest, error) {
	if snap.IsEmpty() {
		return domain.CreateOrderRequest{}, ErrEmptyCart
	}
	if snap.Subtotal < MinOrderAmount {
		return domain.CreateOrderRequest{}, ErrBelowMinimumAmount
	}
	if !opts.PaymentMethod.Valid() {
		return domain.CreateOrderRequest{}, ErrInvalidPayment
	}
	if opts.DeliveryAddress == "" && opts.PickupTime == "" {
		return domain.CreateOrderRequest{}, ErrNoFulfilment
	}

	items := make([]domain.CreateOrderItem, 0, len(snap.Items))
	for _, li := range snap.Items {
		items = append(items, domain.CreateOrderItem{
			MenuItemID:    li.MenuItem.ID,
			Quantity:      li.Quantity,
			Customization: li.Customization,
		})
	}

	return domain.CreateOrderRequest{
		Items:           items,
		PaymentMethod:   opts.PaymentMethod,
		DeliveryAddress: opts.DeliveryAddress,
		PickupTime:      opts.PickupTime,
		SpecialNote:     opts.SpecialNote,
		PromoCode:       snap.PromoCode,
		DiscountAmount:  snap.DiscountAmount,
	}, nil
}
