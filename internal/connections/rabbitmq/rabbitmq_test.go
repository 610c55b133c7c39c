package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-service/internal/config"
)

func TestConfigURI(t *testing.T) {
	cfg := FromConfig(config.RabbitMQConfig{
		Host:     "mq",
		Port:     5673,
		User:     "laundry",
		Password: "secret",
	}, "order-service")

	uri := cfg.URI()
	assert.Equal(t, "amqp", uri.Scheme)
	assert.Equal(t, "mq", uri.Host)
	assert.Equal(t, 5673, uri.Port)
	assert.Equal(t, "/", uri.Vhost)
	assert.Equal(t, "order-service", cfg.Name)
	assert.Contains(t, uri.String(), "mq:5673")

	cfg.UseTLS = true
	assert.Equal(t, "amqps", cfg.URI().Scheme)
}

func TestCloseNil(t *testing.T) {
	var c *Client
	assert.NotPanics(t, c.Close)
}

// scriptedPublisher hands out one confirmation per publish, in order.
type scriptedPublisher struct {
	confirms []*amqp.DeferredConfirmation
	err      error
	sent     []amqp.Publishing
}

func (p *scriptedPublisher) PublishWithDeferredConfirmWithContext(_ context.Context, _, _ string,
	_, _ bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.sent = append(p.sent, msg)
	dc := p.confirms[0]
	p.confirms = p.confirms[1:]
	return dc, nil
}

func TestPublish_WaitsOnItsOwnConfirmation(t *testing.T) {
	// the first confirmation never arrives, the second channel is not in confirm mode
	pub := &scriptedPublisher{confirms: []*amqp.DeferredConfirmation{{}, nil}}
	c := &Client{pub: pub}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Publish(ctx, ExchangeNotifications, "ORDER_STATUS", []byte(`{}`), nil, ContentTypeJSON, true)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	err = c.Publish(context.Background(), ExchangeNotifications, "NEW_ORDER", []byte(`{}`), nil, ContentTypeJSON, false)
	require.NoError(t, err)

	require.Len(t, pub.sent, 2)
	assert.Equal(t, amqp.Persistent, pub.sent[0].DeliveryMode)
	assert.Equal(t, amqp.Transient, pub.sent[1].DeliveryMode)
	assert.Equal(t, ContentTypeJSON, pub.sent[1].ContentType)
}

func TestPublish_ReturnsPublishError(t *testing.T) {
	c := &Client{pub: &scriptedPublisher{err: errors.New("channel closed")}}
	err := c.Publish(context.Background(), ExchangeNotifications, "k", nil, nil, ContentTypeJSON, true)
	assert.EqualError(t, err, "channel closed")
}
