package mq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"tiffinbox/internal/common/config"
)

const (
	StatusExchange    = "order_status_fanout"
	NotificationQueue = "notifications.q"
)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Dial(cfg config.MQ) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.VHost)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	return &Client{conn: conn, ch: ch}, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// DeclareAll sets up the status fanout exchange and the notification queue.
func (c *Client) DeclareAll() error {
	if err := c.ch.ExchangeDeclare(StatusExchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(NotificationQueue, true, false, false, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(NotificationQueue, "", StatusExchange, false, nil)
}

func (c *Client) PublishPersistent(ctx context.Context, exchange, key string, body []byte) error {
	return c.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
}

func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}
