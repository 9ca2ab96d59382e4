// Package events announces placed orders over AMQP so a kitchen display or
// notification worker can pick them up. The publisher is optional: without an
// AMQP URL the service wires the no-op variant.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"surf-storefront/internal/domain"
)

const exchange = "storefront_orders"

// OrderPlacedMessage is the JSON body published for each placed order.
type OrderPlacedMessage struct {
	SessionID        string            `json:"session_id"`
	OrderID          string            `json:"order_id"`
	Number           string            `json:"number"`
	Status           string            `json:"status"`
	Items            []domain.CartLine `json:"items"`
	Total            int64             `json:"total"`
	PickupSpot       string            `json:"pickup_spot"`
	EstimatedMinutes int               `json:"estimated_minutes"`
	PlacedAt         time.Time         `json:"placed_at"`
}

// AMQPPublisher publishes order-placed messages to a topic exchange.
type AMQPPublisher struct {
	conn *amqp.Connection
}

// Dial connects to the broker at url.
func Dial(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return &AMQPPublisher{conn: conn}, nil
}

func (p *AMQPPublisher) PublishOrderPlaced(ctx context.Context, sessionID string, order domain.Order) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	body, err := json.Marshal(OrderPlacedMessage{
		SessionID:        sessionID,
		OrderID:          order.ID,
		Number:           order.Number,
		Status:           string(order.Status),
		Items:            order.Items,
		Total:            order.Total,
		PickupSpot:       order.PickupSpot,
		EstimatedMinutes: order.EstimatedMinutes,
		PlacedAt:         order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	routingKey := fmt.Sprintf("order.%s", order.Status)
	err = ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}

// Noop discards every message.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, string, domain.Order) error {
	return nil
}
