package order

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffinbox/internal/domain"
)

func sampleOrder(now time.Time) domain.Order {
	return domain.Order{
		ID:            "ord-1",
		OrderNumber:   "ORD_20260830_001",
		CustomerID:    "cust-1",
		Status:        domain.StatusPending,
		Subtotal:      280,
		FinalAmount:   310,
		DeliveryFee:   30,
		PaymentMethod: domain.PaymentCOD,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items: []domain.OrderItem{{
			MenuItemID: "guj001", MenuItemName: "Gujarati Thali",
			Quantity: 1, UnitPrice: 280, TotalPrice: 280,
		}},
		StatusHistory: []domain.OrderStatusEvent{
			{Status: domain.StatusPending, Timestamp: now, Note: "order placed"},
		},
	}
}

func TestSQLRepository_Insert(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	o := sampleOrder(now)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_status_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewSQLRepository(db)
	require.NoError(t, repo.Insert(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_InsertRollsBackOnItemFailure(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	o := sampleOrder(now)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	repo := NewSQLRepository(db)
	err = repo.Insert(context.Background(), o)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_GetNotFound(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewSQLRepository(db)
	_, err = repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSQLRepository_AppendStatusUnknownOrder(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewSQLRepository(db)
	err = repo.AppendStatus(context.Background(), "missing", domain.OrderStatusEvent{
		Status: domain.StatusAccepted, Timestamp: time.Now().UTC(),
	})
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSQLRepository_CountSince(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	since := time.Now().UTC().Truncate(24 * time.Hour)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	repo := NewSQLRepository(db)
	n, err := repo.CountSince(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
