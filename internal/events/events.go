// Package events publishes order lifecycle events for downstream
// consumers such as the storefront's live kitchen display.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bakery-storefront/internal/model"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderPaid          = "order.paid"
	TypeOrderStatusChanged = "order.status_changed"
)

const (
	aggregateOrder = "order"
	source         = "bakery-storefront"
)

// Envelope wraps every published payload.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
	Data          json.RawMessage `json:"data"`
}

func newEnvelope(eventType string, orderID uuid.UUID, data any) (*Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   orderID.String(),
		AggregateType: aggregateOrder,
		Version:       1,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		Data:          raw,
	}, nil
}

// OrderCreated is the payload of order.created.
type OrderCreated struct {
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID *string   `json:"customer_id"`
	Total      int64     `json:"total"`
	PickupDate time.Time `json:"pickup_date"`
	ItemCount  int       `json:"item_count"`
}

// OrderPaid is the payload of order.paid.
type OrderPaid struct {
	OrderID          uuid.UUID `json:"order_id"`
	PaymentReference string    `json:"payment_reference"`
}

// StatusChanged is the payload of order.status_changed.
type StatusChanged struct {
	OrderID uuid.UUID         `json:"order_id"`
	From    model.OrderStatus `json:"from"`
	To      model.OrderStatus `json:"to"`
	ActorID *string           `json:"actor_id,omitempty"`
}

// Publisher emits order events. Callers treat failures as non-fatal: the
// order row is already committed when an event is published.
type Publisher interface {
	OrderCreated(ctx context.Context, order *model.Order) error
	OrderPaid(ctx context.Context, orderID uuid.UUID, paymentReference string) error
	StatusChanged(ctx context.Context, orderID uuid.UUID, from, to model.OrderStatus, actorID *string) error
	Close() error
}

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) OrderCreated(context.Context, *model.Order) error {
	return nil
}

func (NopPublisher) OrderPaid(context.Context, uuid.UUID, string) error {
	return nil
}

func (NopPublisher) StatusChanged(context.Context, uuid.UUID, model.OrderStatus, model.OrderStatus, *string) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
