package rabbitmq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// ErrConnectionClosed -.
var ErrConnectionClosed = errors.New("rabbitmq - Publisher - Publish - connection closed")

const (
	_defaultWaitTime = 5 * time.Second
	_defaultAttempts = 10
)

// Publisher sends messages to one topic exchange and reconnects when the broker drops it.
type Publisher struct {
	mu    sync.RWMutex
	conn  *Connection
	error chan error
	stop  chan struct{}
	once  sync.Once
}

// NewPublisher -.
func NewPublisher(url, exchange string, opts ...Option) (*Publisher, error) {
	cfg := Config{
		URL:      url,
		WaitTime: _defaultWaitTime,
		Attempts: _defaultAttempts,
	}

	// Custom options
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Publisher{
		conn:  New(exchange, cfg),
		error: make(chan error, 1),
		stop:  make(chan struct{}),
	}

	err := p.conn.AttemptConnect()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq - NewPublisher - p.conn.AttemptConnect: %w", err)
	}

	go p.watch(p.conn.Closed)

	return p, nil
}

// Publish sends body with the given routing key.
func (p *Publisher) Publish(routingKey, contentType string, body []byte) error {
	select {
	case <-p.stop:
		return ErrConnectionClosed
	default:
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	err := p.conn.Channel.Publish(p.conn.Exchange, routingKey, false, false,
		amqp.Publishing{
			ContentType:  contentType,
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("rabbitmq - Publisher - Publish - p.conn.Channel.Publish: %w", err)
	}

	return nil
}

func (p *Publisher) watch(closed <-chan *amqp.Error) {
	select {
	case <-p.stop:
		return
	case <-closed:
	}

	select {
	case <-p.stop:
		return
	default:
	}

	p.reconnect()
}

func (p *Publisher) reconnect() {
	p.mu.Lock()
	err := p.conn.AttemptConnect()
	p.mu.Unlock()

	if err != nil {
		p.error <- err
		close(p.error)

		return
	}

	go p.watch(p.conn.Closed)
}

// Notify -.
func (p *Publisher) Notify() <-chan error {
	return p.error
}

// Shutdown -.
func (p *Publisher) Shutdown() error {
	var err error

	p.once.Do(func() {
		close(p.stop)

		p.mu.Lock()
		defer p.mu.Unlock()

		err = p.conn.Close()
	})

	if err != nil {
		return fmt.Errorf("rabbitmq - Publisher - Shutdown: %w", err)
	}

	return nil
}
