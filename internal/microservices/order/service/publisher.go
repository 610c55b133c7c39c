package service

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"laundry-service/internal/connections/rabbitmq"
	"laundry-service/internal/domain"
)

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev domain.OrderEvent) error
}

// RabbitPublisher sends order events to the notifications fanout and waits
// for the broker confirm.
type RabbitPublisher struct {
	client *rabbitmq.Client
}

func NewRabbitPublisher(client *rabbitmq.Client) *RabbitPublisher {
	return &RabbitPublisher{client: client}
}

func (p *RabbitPublisher) PublishOrderEvent(ctx context.Context, ev domain.OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	headers := amqp.Table{
		"x-source":   "order-service",
		"x-event-id": ev.EventID,
	}
	if err := p.client.Publish(ctx, rabbitmq.ExchangeNotifications, ev.Type, body, headers, rabbitmq.ContentTypeJSON, true); err != nil {
		return fmt.Errorf("failed to publish %s for order %d: %w", ev.Type, ev.OrderID, err)
	}
	return nil
}

// NopPublisher drops events. Used when rabbitmq.enabled is false.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, domain.OrderEvent) error { return nil }
