package client

import (
	"context"
	"errors"
	"time"

	"tiffinbox/internal/common/logger"
	"tiffinbox/internal/domain"
	"tiffinbox/internal/tracker"
)

// DefaultPollInterval is how often active orders are refreshed.
const DefaultPollInterval = 5 * time.Second

// OrderFetcher is what the poller needs from the API client.
type OrderFetcher interface {
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
}

// Poller refreshes the customer's active orders and folds the results
// into the tracker. Terminal orders drop out of the active set on
// their own, so polling winds down once everything is delivered.
type Poller struct {
	api      OrderFetcher
	trk      *tracker.Tracker
	lg       *logger.Logger
	interval time.Duration
}

func NewPoller(api OrderFetcher, trk *tracker.Tracker, lg *logger.Logger) *Poller {
	if lg == nil {
		lg = logger.New("order-poller")
	}
	return &Poller{api: api, trk: trk, lg: lg, interval: DefaultPollInterval}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	for _, o := range p.trk.Active() {
		fresh, err := p.api.GetOrder(ctx, o.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			p.lg.Error("poll_order_failed", err, map[string]any{"order_id": o.ID})
			continue
		}
		if fresh.Status != o.Status || fresh.UpdatedAt.After(o.UpdatedAt) {
			p.trk.RecordOrder(fresh)
		}
	}
}
