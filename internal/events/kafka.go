package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bakery-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic keyed by order id, so
// every event of one order lands on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger zerolog.Logger
}

// NewKafkaPublisher creates a synchronous producer for topic.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, topic, logger)
}

func newKafkaPublisher(w messageWriter, topic string, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		topic:  topic,
		logger: logger.With().Str("component", "events").Str("topic", topic).Logger(),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, orderID uuid.UUID, data any) error {
	env, err := newEnvelope(eventType, orderID, data)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(env.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "source", Value: []byte(source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Str("order_id", env.AggregateID).Msg("failed to publish event")
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	p.logger.Debug().Str("event_type", eventType).Str("order_id", env.AggregateID).Msg("event published")
	return nil
}

// OrderCreated publishes order.created.
func (p *KafkaPublisher) OrderCreated(ctx context.Context, order *model.Order) error {
	return p.publish(ctx, TypeOrderCreated, order.ID, OrderCreated{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
		PickupDate: order.PickupDate,
		ItemCount:  len(order.Items),
	})
}

// OrderPaid publishes order.paid.
func (p *KafkaPublisher) OrderPaid(ctx context.Context, orderID uuid.UUID, paymentReference string) error {
	return p.publish(ctx, TypeOrderPaid, orderID, OrderPaid{OrderID: orderID, PaymentReference: paymentReference})
}

// StatusChanged publishes order.status_changed.
func (p *KafkaPublisher) StatusChanged(ctx context.Context, orderID uuid.UUID, from, to model.OrderStatus, actorID *string) error {
	return p.publish(ctx, TypeOrderStatusChanged, orderID, StatusChanged{OrderID: orderID, From: from, To: to, ActorID: actorID})
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
