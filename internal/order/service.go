// Package order is the server side of order handling: validation,
// price freezing, persistence and status transitions.
package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tiffinbox/internal/cart"
	"tiffinbox/internal/checkout"
	"tiffinbox/internal/common/logger"
	"tiffinbox/internal/common/mq"
	"tiffinbox/internal/domain"
)

var (
	ErrNoItems            = errors.New("at least one item is required")
	ErrInvalidQuantity    = fmt.Errorf("item quantity must be between 1 and %d", cart.MaxQuantity)
	ErrUnknownMenuItem    = errors.New("unknown menu item")
	ErrItemUnavailable    = errors.New("menu item is not available")
	ErrInvalidPayment     = errors.New("unknown payment method")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrIllegalTransition  = errors.New("illegal order status transition")
	ErrAccessDenied       = errors.New("order belongs to another customer")
)

// Catalog is what the service needs from the menu: item lookup plus
// per-extra pricing.
type Catalog interface {
	cart.ExtraPricer
	Get(id string) (domain.MenuItem, bool)
}

// Publisher emits status-change notifications. Best-effort: publish
// failures are logged, never fail the request.
type Publisher interface {
	PublishStatusChange(ctx context.Context, ev domain.StatusChange) error
}

type MQPublisher struct{ client *mq.Client }

func NewMQPublisher(client *mq.Client) *MQPublisher { return &MQPublisher{client: client} }

func (p *MQPublisher) PublishStatusChange(ctx context.Context, ev domain.StatusChange) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}
	return p.client.PublishPersistent(ctx, mq.StatusExchange, "", body)
}

type Service struct {
	repo    Repository
	catalog Catalog
	pub     Publisher
	lg      *logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, catalog Catalog, pub Publisher, lg *logger.Logger) *Service {
	if lg == nil {
		lg = logger.New("order-service")
	}
	return &Service{repo: repo, catalog: catalog, pub: pub, lg: lg, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates the request, freezes prices from the catalog,
// persists the order in PENDING and announces it.
func (s *Service) Create(ctx context.Context, customerID string, req domain.CreateOrderRequest) (domain.Order, error) {
	if len(req.Items) == 0 {
		return domain.Order{}, ErrNoItems
	}
	if !req.PaymentMethod.Valid() {
		return domain.Order{}, ErrInvalidPayment
	}

	now := s.now()
	items := make([]domain.OrderItem, 0, len(req.Items))
	subtotal := 0.0
	for _, reqItem := range req.Items {
		if reqItem.Quantity < 1 || reqItem.Quantity > cart.MaxQuantity {
			return domain.Order{}, ErrInvalidQuantity
		}
		menuItem, ok := s.catalog.Get(reqItem.MenuItemID)
		if !ok {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrUnknownMenuItem, reqItem.MenuItemID)
		}
		if !menuItem.IsAvailable {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrItemUnavailable, reqItem.MenuItemID)
		}
		unit := cart.UnitPrice(s.catalog, menuItem, reqItem.Customization)
		total := unit * float64(reqItem.Quantity)
		items = append(items, domain.OrderItem{
			MenuItemID:    menuItem.ID,
			MenuItemName:  menuItem.Name,
			Quantity:      reqItem.Quantity,
			UnitPrice:     unit,
			TotalPrice:    total,
			Customization: reqItem.Customization,
		})
		subtotal += total
	}

	deliveryFee := 0.0
	if req.DeliveryAddress != "" {
		deliveryFee = checkout.DeliveryFee(subtotal)
	}
	discount := min(req.DiscountAmount, subtotal)
	if discount < 0 {
		discount = 0
	}

	number, err := s.nextOrderNumber(ctx, now)
	if err != nil {
		return domain.Order{}, err
	}

	o := domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     number,
		CustomerID:      customerID,
		Items:           items,
		Status:          domain.StatusPending,
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFee,
		PromoCode:       req.PromoCode,
		DiscountAmount:  discount,
		FinalAmount:     subtotal + deliveryFee - discount,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   domain.PaymentPending,
		DeliveryAddress: req.DeliveryAddress,
		PickupTime:      req.PickupTime,
		SpecialNote:     req.SpecialNote,
		CreatedAt:       now,
		UpdatedAt:       now,
		StatusHistory: []domain.OrderStatusEvent{
			{Status: domain.StatusPending, Timestamp: now, Note: "order placed"},
		},
	}

	if err := s.repo.Insert(ctx, o); err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}

	s.publish(domain.StatusChange{
		OrderID: o.ID, NewStatus: o.Status, Note: "order placed", OccurredAt: now,
	})
	s.lg.Info("order_created", map[string]any{
		"order_id": o.ID, "order_number": o.OrderNumber, "total": o.FinalAmount,
	})
	return o, nil
}

// Get returns an order, restricted to its owner.
func (s *Service) Get(ctx context.Context, customerID, orderID string) (domain.Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.CustomerID != customerID {
		return domain.Order{}, ErrAccessDenied
	}
	return o, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// UpdateStatus moves an order to a new status. The transition table is
// enforced here and only here; clients mirror the result.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, note string) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, ErrInvalidStatus
	}
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.Status.CanTransition(status) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, status)
	}

	now := s.now()
	ev := domain.OrderStatusEvent{Status: status, Timestamp: now, Note: note}
	if err := s.repo.AppendStatus(ctx, orderID, ev); err != nil {
		return domain.Order{}, fmt.Errorf("append status: %w", err)
	}

	o.Status = status
	o.UpdatedAt = now
	o.StatusHistory = append(o.StatusHistory, ev)

	s.publish(domain.StatusChange{OrderID: orderID, NewStatus: status, Note: note, OccurredAt: now})
	s.lg.Info("order_status_changed", map[string]any{"order_id": orderID, "status": string(status)})
	return o, nil
}

func (s *Service) publish(ev domain.StatusChange) {
	if s.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.pub.PublishStatusChange(ctx, ev); err != nil {
		s.lg.Error("status_publish_failed", err, map[string]any{"order_id": ev.OrderID})
	}
}

// nextOrderNumber yields ORD_YYYYMMDD_NNN, NNN counting from the start
// of the current day.
func (s *Service) nextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	n, err := s.repo.CountSince(ctx, midnight)
	if err != nil {
		return "", fmt.Errorf("order sequence: %w", err)
	}
	return fmt.Sprintf("ORD_%s_%03d", now.Format("20060102"), n+1), nil
}
