package event

import (
	"context"
	"log/slog"
	"time"
)

type CustomerEventPayload struct {
	CustomerID  int64  `json:"customerId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerUpdatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerDeletedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

// NoopPublisher drops every event. It stands in when RabbitMQ is disabled.
type NoopPublisher struct {
	logger *slog.Logger
}

var _ EventPublisher = (*NoopPublisher)(nil)

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger.With("component", "NoopPublisher")}
}

func (p *NoopPublisher) PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error {
	p.drop(ctx, routingKeyCustomerCreated, event.Payload.CustomerID)
	return nil
}

func (p *NoopPublisher) PublishCustomerUpdated(ctx context.Context, event CustomerUpdatedEvent) error {
	p.drop(ctx, routingKeyCustomerUpdated, event.Payload.CustomerID)
	return nil
}

func (p *NoopPublisher) PublishCustomerDeleted(ctx context.Context, event CustomerDeletedEvent) error {
	p.drop(ctx, routingKeyCustomerDeleted, event.Payload.CustomerID)
	return nil
}

func (p *NoopPublisher) drop(ctx context.Context, routingKey string, customerID int64) {
	p.logger.DebugContext(ctx, "Event publishing disabled, dropping event",
		slog.String("routingKey", routingKey),
		slog.Int64("customerID", customerID),
	)
}
