// Package amqp forwards domain events to a RabbitMQ topic exchange so other
// services can react to new reports and advice.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	publishTimeout = 5 * time.Second

	// reconnectInterval is the minimum gap between dial attempts after the broker goes away
	reconnectInterval = 10 * time.Second
)

// ErrNotConnected is returned while the broker connection is down
var ErrNotConnected = errors.New("amqp publisher not connected")

// channel is the subset of *amqp091.Channel used for publishing
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// dialFunc opens a connection and a publishing channel with the exchange declared.
// notify receives the connection's close notification and may be nil.
type dialFunc func(url, exchange string) (conn io.Closer, ch channel, notify <-chan *amqp091.Error, err error)

// Publisher implements websocket.EventPublisher over AMQP.
// The routing key is the event type, e.g. "report.created".
// When the broker drops the connection, events are discarded until a
// publish after reconnectInterval redials successfully.
type Publisher struct {
	url      string
	exchange string
	dial     dialFunc
	now      func() time.Time

	mu          sync.Mutex
	conn        io.Closer
	channel     channel
	lastAttempt time.Time
	closed      bool
}

var _ websocket.EventPublisher = (*Publisher)(nil)

// NewPublisher dials the broker and declares a durable topic exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	p := &Publisher{url: url, exchange: exchange, dial: dialBroker, now: time.Now}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialBroker(url, exchange string) (io.Closer, channel, <-chan *amqp091.Error, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, nil, fmt.Errorf("declare exchange: %w", err)
	}

	notify := conn.NotifyClose(make(chan *amqp091.Error, 1))
	return conn, ch, notify, nil
}

// connect dials the broker. Callers other than NewPublisher must hold p.mu.
func (p *Publisher) connect() error {
	p.lastAttempt = p.clock()
	conn, ch, notify, err := p.dial(p.url, p.exchange)
	if err != nil {
		return err
	}
	p.conn = conn
	p.channel = ch
	if notify != nil {
		go p.watch(ch, notify)
	}
	return nil
}

// watch drops the channel once its connection closes
func (p *Publisher) watch(ch channel, notify <-chan *amqp091.Error) {
	amqpErr := <-notify

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.channel != ch {
		return
	}
	p.channel = nil
	p.conn = nil

	event := log.Warn().Str("exchange", p.exchange)
	if amqpErr != nil {
		event = event.Err(amqpErr)
	}
	event.Msg("AMQP connection lost, events are dropped until reconnect")
}

// activeChannel returns the open channel, redialing at most once per reconnectInterval
func (p *Publisher) activeChannel() (channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		return p.channel, nil
	}
	if p.closed || p.dial == nil {
		return nil, ErrNotConnected
	}
	if !p.lastAttempt.IsZero() && p.clock().Sub(p.lastAttempt) < reconnectInterval {
		return nil, ErrNotConnected
	}
	if err := p.connect(); err != nil {
		log.Warn().Err(err).Str("exchange", p.exchange).Msg("AMQP reconnect failed")
		return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	log.Info().Str("exchange", p.exchange).Msg("AMQP publisher reconnected")
	return p.channel, nil
}

// dropChannel discards ch after a failed publish so the next publish redials
func (p *Publisher) dropChannel(ch channel) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != ch {
		return
	}
	ch.Close()
	if p.conn != nil {
		p.conn.Close()
	}
	p.channel = nil
	p.conn = nil
}

func (p *Publisher) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}

// Publish sends the event; failures are logged because events are best effort
func (p *Publisher) Publish(ownerID uuid.UUID, event websocket.Event) {
	err := p.publish(context.Background(), ownerID, event)
	if err == nil {
		return
	}

	logEvent := log.Error()
	if errors.Is(err, ErrNotConnected) {
		// The disconnect itself was already logged once
		logEvent = log.Debug()
	}
	logEvent.
		Err(err).
		Str("owner_id", ownerID.String()).
		Str("event_type", event.Type).
		Str("exchange", p.exchange).
		Msg("Failed to publish event")
}

func (p *Publisher) publish(ctx context.Context, ownerID uuid.UUID, event websocket.Event) error {
	msg := &EventMessage{OwnerID: ownerID, Event: event}
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ch, err := p.activeChannel()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(
		ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		p.dropChannel(ch)
		return fmt.Errorf("publish message: %w", err)
	}

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("event_type", event.Type).
		Str("exchange", p.exchange).
		Msg("Published event")
	return nil
}

// Close closes the channel and connection. Later publishes are dropped.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}
