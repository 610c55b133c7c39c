package rabbitmq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"laundry-service/internal/config"
)

const (
	ExchangeNotifications = "notifications_fanout"
	QueueNotifications    = "notifications.q"
	ContentTypeJSON       = "application/json"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string // default "/"
	UseTLS   bool
	// Name shows up as the connection name in the management UI.
	Name string
}

func FromConfig(cfg config.RabbitMQConfig, name string) Config {
	return Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		VHost:    cfg.VHost,
		UseTLS:   cfg.UseTLS,
		Name:     name,
	}
}

// confirmPublisher is the part of *amqp.Channel Publish uses.
type confirmPublisher interface {
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string,
		mandatory, immediate bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error)
}

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	pub confirmPublisher
	mu  sync.Mutex // сериализуем отправку, подтверждения ждём вне мьютекса
}

func (c *Client) Channel() *amqp.Channel { return c.ch }

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

func (cfg Config) URI() amqp.URI {
	uri := amqp.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		Password: cfg.Password,
		Vhost:    cfg.VHost,
	}
	if uri.Vhost == "" {
		uri.Vhost = "/"
	}
	if cfg.UseTLS {
		uri.Scheme = "amqps"
	}
	return uri
}

func Dial(cfg Config) (*Client, error) {
	amqpCfg := amqp.Config{
		Heartbeat:  10 * time.Second,
		Locale:     "en_US",
		Properties: amqp.NewConnectionProperties(),
	}
	if cfg.Name != "" {
		amqpCfg.Properties.SetClientConnectionName(cfg.Name)
	}
	if cfg.UseTLS {
		amqpCfg.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	conn, err := amqp.DialConfig(cfg.URI().String(), amqpCfg)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Включаем publisher confirms и подписываемся на подтверждения
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}

	return &Client{conn: conn, ch: ch, pub: ch}, nil
}

// Лёгкая health-проверка соединения
func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Publish публикует сообщение и ждёт ack/nack от брокера именно для него.
// Подтверждение, пришедшее после отмены ctx, не достаётся следующему Publish.
func (c *Client) Publish(ctx context.Context, exchange, key string,
	body []byte, headers amqp.Table, contentType string, persistent bool) error {

	mode := amqp.Transient
	if persistent {
		mode = amqp.Persistent
	}

	c.mu.Lock()
	dc, err := c.pub.PublishWithDeferredConfirmWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: mode,
			ContentType:  contentType,
			Timestamp:    time.Now(),
			Headers:      headers,
			Body:         body,
		},
	)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	// канал не в режиме confirm
	if dc == nil {
		return nil
	}

	ack, err := dc.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !ack {
		return errors.New("publish NACK from broker")
	}
	return nil
}

// DeclareTopology declares the durable notifications fanout and the queue the
// notification subscriber reads from.
func (c *Client) DeclareTopology() error {
	if c == nil || c.ch == nil {
		return errors.New("nil channel")
	}
	if err := c.ch.ExchangeDeclare(ExchangeNotifications, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeNotifications, err)
	}
	if _, err := c.ch.QueueDeclare(QueueNotifications, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", QueueNotifications, err)
	}
	if err := c.ch.QueueBind(QueueNotifications, "", ExchangeNotifications, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", QueueNotifications, err)
	}
	return nil
}

// Consume starts a manual-ack consumer with the given prefetch.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}

// Cancel stops delivery to consumer; its delivery channel closes once the
// broker confirms.
func (c *Client) Cancel(consumer string) error {
	return c.ch.Cancel(consumer, false)
}
