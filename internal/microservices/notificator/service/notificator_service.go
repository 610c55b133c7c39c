package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/connections/rabbitmq"
	"laundry-service/internal/domain"
)

var (
	ErrRequeue = errors.New("requeue")     // nack(requeue=true)
	ErrDLQ     = errors.New("dead_letter") // nack(requeue=false)
)

// Subscriber is the slice of the RabbitMQ client the notificator needs.
type Subscriber interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error)
	Cancel(consumer string) error
}

type NotificatorServiceInterface interface {
	Run(ctx context.Context) error
	Handle(d amqp.Delivery) error
}

type NotificatorService struct {
	sub Subscriber
	log *logger.Logger

	Queue       string
	ConsumerTag string
	Prefetch    int
}

func NewNotificatorService(sub Subscriber, lg *logger.Logger, prefetch int) *NotificatorService {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &NotificatorService{
		sub:         sub,
		log:         lg,
		Queue:       rabbitmq.QueueNotifications,
		ConsumerTag: "notificator",
		Prefetch:    prefetch,
	}
}

// Run consumes until ctx is cancelled, then cancels the consumer and waits
// for in-flight deliveries to drain.
func (ns *NotificatorService) Run(ctx context.Context) error {
	msgs, err := ns.sub.Consume(ns.Queue, ns.ConsumerTag, ns.Prefetch)
	if err != nil {
		return fmt.Errorf("consume %s: %w", ns.Queue, err)
	}
	ns.log.Info("consumer_started", map[string]any{"queue": ns.Queue, "prefetch": ns.Prefetch})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range msgs {
			ns.dispatch(d)
		}
	}()

	select {
	case <-ctx.Done():
		ns.log.Info("graceful_shutdown", map[string]any{"queue": ns.Queue})
		if err := ns.sub.Cancel(ns.ConsumerTag); err != nil {
			ns.log.Warn("consumer_cancel_failed", map[string]any{"error": err.Error()})
		}
		<-done
		return nil
	case <-done:
		return errors.New("delivery channel closed by broker")
	}
}

func (ns *NotificatorService) dispatch(d amqp.Delivery) {
	err := ns.Handle(d)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrDLQ):
		ns.log.Warn("message_rejected", map[string]any{"message_id": d.MessageId, "reason": err.Error()})
		_ = d.Nack(false, false)
	default:
		_ = d.Nack(false, true)
	}
}

// Handle decodes one order event and logs it. Undecodable payloads are
// dead-lettered.
func (ns *NotificatorService) Handle(d amqp.Delivery) error {
	var ev domain.OrderEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrDLQ, err)
	}
	if ev.Type == "" || ev.OrderID == 0 {
		return fmt.Errorf("%w: event without type or order id", ErrDLQ)
	}

	fields := map[string]any{
		"event_id":    ev.EventID,
		"type":        ev.Type,
		"order_id":    ev.OrderID,
		"customer_id": ev.CustomerID,
		"new_status":  ev.NewStatus,
		"changed_by":  ev.ChangedBy,
	}
	if ev.OldStatus != "" {
		fields["old_status"] = ev.OldStatus
	}
	if src, ok := d.Headers["x-source"].(string); ok {
		fields["source"] = src
	}
	ns.log.Info("notification_received", fields)
	return nil
}
