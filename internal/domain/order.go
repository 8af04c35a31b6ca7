package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusAccepted  OrderStatus = "ACCEPTED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusRejected  OrderStatus = "REJECTED"
)

func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

func (s OrderStatus) String() string { return string(s) }

// statusTransitions is the authoritative transition table. Only the
// order service enforces it; the client-side tracker mirrors whatever
// the server reports.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusRejected:  {},
}

// CanTransition reports whether to is a legal successor of s.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "COD"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentUPI || m == PaymentCreditCard
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// OrderStatusEvent is one entry in an order's status history.
// Append-only: entries are never rewritten or removed.
type OrderStatusEvent struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
}

// OrderItem is a price-frozen copy of a cart line, decoupled from the
// live catalog.
type OrderItem struct {
	MenuItemID    string         `json:"menu_item_id"`
	MenuItemName  string         `json:"menu_item_name"`
	Quantity      int            `json:"quantity"`
	UnitPrice     float64        `json:"unit_price"`
	TotalPrice    float64        `json:"total_price"`
	Customization *Customization `json:"customization,omitempty"`
}

type Order struct {
	ID              string             `json:"id"`
	OrderNumber     string             `json:"order_number"`
	CustomerID      string             `json:"customer_id"`
	Items           []OrderItem        `json:"items"`
	Status          OrderStatus        `json:"status"`
	Subtotal        float64            `json:"subtotal"`
	DeliveryFee     float64            `json:"delivery_fee"`
	PromoCode       string             `json:"promo_code,omitempty"`
	DiscountAmount  float64            `json:"discount_amount"`
	FinalAmount     float64            `json:"final_amount"`
	PaymentMethod   PaymentMethod      `json:"payment_method"`
	PaymentStatus   PaymentStatus      `json:"payment_status"`
	DeliveryAddress string             `json:"delivery_address,omitempty"`
	PickupTime      string             `json:"pickup_time,omitempty"`
	SpecialNote     string             `json:"special_note,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	StatusHistory   []OrderStatusEvent `json:"status_history"`
}

// CreateOrderItem is one line of an order-creation request produced by
// the checkout hand-off. Prices are resolved server-side.
type CreateOrderItem struct {
	MenuItemID    string         `json:"menu_item_id"`
	Quantity      int            `json:"quantity"`
	Customization *Customization `json:"customization,omitempty"`
}

type CreateOrderRequest struct {
	Items           []CreateOrderItem `json:"items"`
	PaymentMethod   PaymentMethod     `json:"payment_method"`
	DeliveryAddress string            `json:"delivery_address,omitempty"`
	PickupTime      string            `json:"pickup_time,omitempty"`
	SpecialNote     string            `json:"special_note,omitempty"`
	PromoCode       string            `json:"promo_code,omitempty"`
	DiscountAmount  float64           `json:"discount_amount,omitempty"`
}

type CreateOrderResponse struct {
	Order Order `json:"order"`
}

// StatusChange is the notification published when an order moves to a
// new status, and the shape the tracker folds via ApplyStatusChange.
type StatusChange struct {
	OrderID    string      `json:"order_id"`
	NewStatus  OrderStatus `json:"new_status"`
	Note       string      `json:"note,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
