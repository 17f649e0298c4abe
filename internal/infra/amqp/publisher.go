// Package amqp publishes alert events to a RabbitMQ exchange.
package amqp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Publisher implements port.AlertPublisher over one AMQP channel.
type Publisher struct {
	mu           sync.Mutex // amqp091 channels are not safe for concurrent publishes
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	logger       *zap.Logger
}

// NewPublisher dials url and declares a durable direct exchange with one
// bound queue. The queue name doubles as routing key.
func NewPublisher(url, exchangeName, queueName string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &Publisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger,
	}

	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return p, nil
}

func (p *Publisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = p.channel.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := p.channel.QueueBind(p.queueName, p.queueName, p.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishAlert sends evt as a persistent JSON message.
func (p *Publisher) PublishAlert(ctx context.Context, evt domain.AlertEvent) error {
	body, err := EncodeAlertEvent(evt)
	if err != nil {
		return fmt.Errorf("marshal alert event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    evt.OccurredAt,
			Type:         string(evt.Alert.Code),
			Body:         body,
		},
	)
	p.mu.Unlock()
	if err != nil {
		return &domain.ErrExternalService{Service: "amqp", Err: fmt.Errorf("publish alert: %w", err)}
	}

	p.logger.Info("alert published",
		zap.String("owner", evt.Owner),
		zap.String("code", string(evt.Alert.Code)),
		zap.String("period", evt.Alert.Period.Key()),
		zap.String("exchange", p.exchangeName),
	)
	return nil
}

// Ping reports whether the connection is still open.
func (p *Publisher) Ping(context.Context) error {
	if p.conn.IsClosed() {
		return &domain.ErrExternalService{Service: "amqp", Err: amqp091.ErrClosed}
	}
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
