package tracker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffinbox/internal/domain"
)

func pendingOrder(id string) domain.Order {
	return domain.Order{
		ID:          id,
		OrderNumber: "ORD_20260830_001",
		Status:      domain.StatusPending,
		CreatedAt:   time.Now().UTC(),
		StatusHistory: []domain.OrderStatusEvent{
			{Status: domain.StatusPending, Timestamp: time.Now().UTC()},
		},
	}
}

func TestRecordOrder_PartitionsByTerminalStatus(t *testing.T) {
	t.Parallel()
	tr := New()

	tr.RecordOrder(pendingOrder("o1"))
	done := pendingOrder("o2")
	done.Status = domain.StatusCompleted
	tr.RecordOrder(done)

	require.Len(t, tr.Active(), 1)
	require.Len(t, tr.Completed(), 1)
	assert.Equal(t, "o1", tr.Active()[0].ID)
	assert.Equal(t, "o2", tr.Completed()[0].ID)
}

func TestRecordOrder_ReplacesByIdentity(t *testing.T) {
	t.Parallel()
	tr := New()
	tr.RecordOrder(pendingOrder("o1"))

	updated := pendingOrder("o1")
	updated.Status = domain.StatusAccepted
	tr.RecordOrder(updated)

	require.Len(t, tr.Orders(), 1)
	got, ok := tr.Get("o1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusAccepted, got.Status)
}

func TestRecordOrder_NewestFirst(t *testing.T) {
	t.Parallel()
	tr := New()
	tr.RecordOrder(pendingOrder("o1"))
	tr.RecordOrder(pendingOrder("o2"))

	orders := tr.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
}

func TestApplyStatusChange_AppendsHistoryAndRepartitions(t *testing.T) {
	t.Parallel()
	tr := New()
	tr.RecordOrder(pendingOrder("o1"))
	require.Len(t, tr.Active(), 1)

	tr.ApplyStatusChange("o1", domain.StatusCompleted, "picked up")

	got, ok := tr.Get("o1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.Len(t, got.StatusHistory, 2)
	assert.Equal(t, domain.StatusCompleted, got.StatusHistory[1].Status)
	assert.Equal(t, "picked up", got.StatusHistory[1].Note)
	assert.Empty(t, tr.Active())
	require.Len(t, tr.Completed(), 1)
}

func TestApplyStatusChange_UnknownOrderIsNoOp(t *testing.T) {
	t.Parallel()
	tr := New()
	tr.RecordOrder(pendingOrder("o1"))

	tr.ApplyStatusChange("missing", domain.StatusCompleted, "")

	got, _ := tr.Get("o1")
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Len(t, tr.Orders(), 1)
}

func TestApplyStatusChange_HistoryIsAppendOnly(t *testing.T) {
	t.Parallel()
	tr := New()
	tr.RecordOrder(pendingOrder("o1"))

	statuses := []domain.OrderStatus{
		domain.StatusAccepted, domain.StatusPreparing, domain.StatusReady, domain.StatusCompleted,
	}
	for _, s := range statuses {
		tr.ApplyStatusChange("o1", s, "")
	}

	got, _ := tr.Get("o1")
	require.Len(t, got.StatusHistory, len(statuses)+1)
	assert.Equal(t, domain.StatusPending, got.StatusHistory[0].Status)
	for i, s := range statuses {
		assert.Equal(t, s, got.StatusHistory[i+1].Status)
	}
}

func TestCurrentOrderFocus(t *testing.T) {
	t.Parallel()
	tr := New()
	o := pendingOrder("o1")
	tr.RecordOrder(o)

	_, ok := tr.CurrentOrder()
	require.False(t, ok)

	tr.SetCurrentOrder(o)
	cur, ok := tr.CurrentOrder()
	require.True(t, ok)
	assert.Equal(t, "o1", cur.ID)

	// the focused order follows status changes
	tr.ApplyStatusChange("o1", domain.StatusAccepted, "")
	cur, _ = tr.CurrentOrder()
	assert.Equal(t, domain.StatusAccepted, cur.Status)

	tr.ClearCurrentOrder()
	_, ok = tr.CurrentOrder()
	assert.False(t, ok)
}

func TestRecordOrders_ReplacesCollection(t *testing.T) {
	t.Parallel()
	tr := New()
	tr.RecordOrder(pendingOrder("stale"))

	fetched := make([]domain.Order, 0, 3)
	for i := 0; i < 3; i++ {
		o := pendingOrder(fmt.Sprintf("o%d", i))
		if i == 0 {
			o.Status = domain.StatusRejected
		}
		fetched = append(fetched, o)
	}
	tr.RecordOrders(fetched)

	assert.Len(t, tr.Orders(), 3)
	assert.Len(t, tr.Active(), 2)
	assert.Len(t, tr.Completed(), 1)
	_, ok := tr.Get("stale")
	assert.False(t, ok)
}
