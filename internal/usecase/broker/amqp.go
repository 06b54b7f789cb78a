package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
)

// RawPublisher is the transport used by AMQP, implemented by rabbitmq.Publisher.
type RawPublisher interface {
	Publish(routingKey, contentType string, body []byte) error
}

// AMQP publishes call events as JSON with the routing key "call.<type>", for the
// push-notification service to wake a peer that is not polling.
type AMQP struct {
	pub RawPublisher
}

var _ usecase.EventPublisher = (*AMQP)(nil)

// NewAMQP -.
func NewAMQP(pub RawPublisher) *AMQP {
	return &AMQP{pub: pub}
}

// Publish -.
func (a *AMQP) Publish(_ context.Context, ev entity.CallEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("AMQP - Publish - json.Marshal: %w", err)
	}

	if err = a.pub.Publish(RoutingKey(ev.Type), "application/json", body); err != nil {
		return fmt.Errorf("AMQP - Publish - a.pub.Publish: %w", err)
	}

	return nil
}

// RoutingKey -.
func RoutingKey(t entity.EventType) string {
	return "call." + string(t)
}
