// Package rabbitmq implements a topic exchange publisher on RabbitMQ.
package rabbitmq

import (
	"fmt"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Config -.
type Config struct {
	URL      string
	WaitTime time.Duration
	Attempts int
}

// Connection -.
type Connection struct {
	Exchange string
	Config
	Connection *amqp.Connection
	Channel    *amqp.Channel
	Closed     chan *amqp.Error
}

// New -.
func New(exchange string, cfg Config) *Connection {
	conn := &Connection{
		Exchange: exchange,
		Config:   cfg,
	}

	return conn
}

// AttemptConnect -.
func (c *Connection) AttemptConnect() error {
	var err error
	for i := c.Attempts; i > 0; i-- {
		if err = c.connect(); err == nil {
			break
		}

		log.Printf("RabbitMQ is trying to connect, attempts left: %d", i)
		time.Sleep(c.WaitTime)
	}

	if err != nil {
		return fmt.Errorf("rabbitmq - AttemptConnect - c.connect: %w", err)
	}

	return nil
}

func (c *Connection) connect() error {
	var err error

	c.Connection, err = amqp.Dial(c.URL)
	if err != nil {
		return fmt.Errorf("amqp.Dial: %w", err)
	}

	c.Channel, err = c.Connection.Channel()
	if err != nil {
		_ = c.Connection.Close()

		return fmt.Errorf("c.Connection.Channel: %w", err)
	}

	err = c.Channel.ExchangeDeclare(
		c.Exchange,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = c.Connection.Close()

		return fmt.Errorf("c.Channel.ExchangeDeclare: %w", err)
	}

	c.Closed = c.Connection.NotifyClose(make(chan *amqp.Error, 1))

	return nil
}

// Close -.
func (c *Connection) Close() error {
	if c.Connection == nil {
		return nil
	}

	if err := c.Connection.Close(); err != nil && err != amqp.ErrClosed {
		return fmt.Errorf("rabbitmq - Close - c.Connection.Close: %w", err)
	}

	return nil
}
