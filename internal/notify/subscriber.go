// Package notify consumes order status changes off the broker and
// turns them into customer notifications. For now that means logging;
// push delivery would plug in here.
package notify

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"tiffinbox/internal/common/logger"
	"tiffinbox/internal/common/mq"
	"tiffinbox/internal/domain"
)

var statusMessages = map[domain.OrderStatus]string{
	domain.StatusAccepted:  "your order has been confirmed",
	domain.StatusRejected:  "sorry, the kitchen could not take your order",
	domain.StatusPreparing: "your food is being prepared",
	domain.StatusReady:     "your order is ready",
	domain.StatusCompleted: "order delivered, enjoy your meal",
	domain.StatusCancelled: "your order was cancelled",
}

type Subscriber struct {
	mq *mq.Client
	lg *logger.Logger
}

func NewSubscriber(client *mq.Client, lg *logger.Logger) *Subscriber {
	if lg == nil {
		lg = logger.New("notification-subscriber")
	}
	return &Subscriber{mq: client, lg: lg}
}

// Run consumes until the context is cancelled or the channel closes.
func (s *Subscriber) Run(ctx context.Context) error {
	deliveries, err := s.mq.Consume(mq.NotificationQueue, "notification-subscriber", 10)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			s.handle(d)
		}
	}
}

func (s *Subscriber) handle(d amqp.Delivery) {
	var change domain.StatusChange
	if err := json.Unmarshal(d.Body, &change); err != nil {
		s.lg.Error("bad_status_message", err, nil)
		_ = d.Nack(false, false)
		return
	}
	s.lg.Info("order_notification", map[string]any{
		"order_id": change.OrderID,
		"status":   string(change.NewStatus),
		"message":  messageFor(change),
	})
	_ = d.Ack(false)
}

func messageFor(change domain.StatusChange) string {
	if msg, ok := statusMessages[change.NewStatus]; ok {
		return msg
	}
	return "your order was updated"
}
