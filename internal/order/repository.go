package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tiffinbox/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	Insert(ctx context.Context, o domain.Order) error
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	AppendStatus(ctx context.Context, id string, ev domain.OrderStatusEvent) error
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository { return &SQLRepository{db: db} }

func (r *SQLRepository) Insert(ctx context.Context, o domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO orders (id, order_number, customer_id, status, subtotal, delivery_fee,
  promo_code, discount_amount, final_amount, payment_method, payment_status,
  delivery_address, pickup_time, special_note, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
`, o.ID, o.OrderNumber, o.CustomerID, string(o.Status), o.Subtotal, o.DeliveryFee,
		nullIfEmpty(o.PromoCode), o.DiscountAmount, o.FinalAmount, string(o.PaymentMethod), string(o.PaymentStatus),
		nullIfEmpty(o.DeliveryAddress), nullIfEmpty(o.PickupTime), nullIfEmpty(o.SpecialNote),
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		var cust []byte
		if it.Customization != nil {
			cust, _ = json.Marshal(it.Customization)
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, menu_item_id, menu_item_name, quantity, unit_price, total_price, customization)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, o.ID, it.MenuItemID, it.MenuItemName, it.Quantity, it.UnitPrice, it.TotalPrice, cust)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	for _, ev := range o.StatusHistory {
		_, err = tx.ExecContext(ctx, `
INSERT INTO order_status_events (order_id, status, note, occurred_at)
VALUES ($1,$2,$3,$4)
`, o.ID, string(ev.Status), nullIfEmpty(ev.Note), ev.Timestamp)
		if err != nil {
			return fmt.Errorf("insert status event: %w", err)
		}
	}

	return tx.Commit()
}

func (r *SQLRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	var status, method, payStatus string
	var addr, pickup, note, promo sql.NullString
	err := r.db.QueryRowContext(ctx, `
SELECT id, order_number, customer_id, status, subtotal, delivery_fee, promo_code,
  discount_amount, final_amount, payment_method, payment_status, delivery_address,
  pickup_time, special_note, created_at, updated_at
FROM orders WHERE id=$1
`, id).Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &status, &o.Subtotal, &o.DeliveryFee,
		&promo, &o.DiscountAmount, &o.FinalAmount, &method, &payStatus, &addr, &pickup,
		&note, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	o.PaymentMethod = domain.PaymentMethod(method)
	o.PaymentStatus = domain.PaymentStatus(payStatus)
	o.PromoCode = promo.String
	o.DeliveryAddress = addr.String
	o.PickupTime = pickup.String
	o.SpecialNote = note.String

	if o.Items, err = r.loadItems(ctx, id); err != nil {
		return domain.Order{}, err
	}
	if o.StatusHistory, err = r.loadHistory(ctx, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *SQLRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id FROM orders WHERE customer_id=$1 ORDER BY created_at DESC
`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *SQLRepository) AppendStatus(ctx context.Context, id string, ev domain.OrderStatusEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3
`, string(ev.Status), ev.Timestamp, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO order_status_events (order_id, status, note, occurred_at)
VALUES ($1,$2,$3,$4)
`, id, string(ev.Status), nullIfEmpty(ev.Note), ev.Timestamp)
	if err != nil {
		return fmt.Errorf("insert status event: %w", err)
	}
	return tx.Commit()
}

func (r *SQLRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM orders WHERE created_at >= $1
`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT menu_item_id, menu_item_name, quantity, unit_price, total_price, customization
FROM order_items WHERE order_id=$1 ORDER BY id ASC
`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		var cust []byte
		if err := rows.Scan(&it.MenuItemID, &it.MenuItemName, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &cust); err != nil {
			return nil, err
		}
		if len(cust) > 0 {
			var c domain.Customization
			if err := json.Unmarshal(cust, &c); err == nil {
				it.Customization = &c
			}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLRepository) loadHistory(ctx context.Context, orderID string) ([]domain.OrderStatusEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT status, note, occurred_at
FROM order_status_events WHERE order_id=$1 ORDER BY occurred_at ASC, id ASC
`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	var events []domain.OrderStatusEvent
	for rows.Next() {
		var status string
		var note sql.NullString
		var ev domain.OrderStatusEvent
		if err := rows.Scan(&status, &note, &ev.Timestamp); err != nil {
			return nil, err
		}
		ev.Status = domain.OrderStatus(status)
		ev.Note = note.String
		events = append(events, ev)
	}
	return events, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
