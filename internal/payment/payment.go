// Package payment talks to the payment processor: it opens payment intents
// for pending orders and verifies the processor's webhook notifications.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bakery-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	// EventPaymentSucceeded is the only notification type that moves an order.
	EventPaymentSucceeded = "payment_intent.succeeded"

	// OrderIDMetadataKey links a payment intent back to its order.
	OrderIDMetadataKey = "orderId"

	// SimulatedReference is recorded on orders paid through the dev simulation.
	SimulatedReference = "simulated_dev_payment"
)

// Intent is a created payment intent.
type Intent struct {
	// Reference is the processor's id for the intent.
	Reference string
	// ClientSecret is handed to the browser to complete payment.
	ClientSecret string
}

// Event is a verified payment notification.
type Event struct {
	ID               string
	Type             string
	OrderID          string
	PaymentReference string
}

// Gateway is the payment processor as seen by the storefront.
type Gateway interface {
	// Name identifies the gateway in logs.
	Name() string

	// CreateIntent opens a payment intent for amount cents tagged with orderID.
	CreateIntent(ctx context.Context, orderID uuid.UUID, amount int64) (*Intent, error)

	// ParseEvent verifies signature against payload and decodes the event.
	// A verification failure returns model.ErrInvalidSignature.
	ParseEvent(payload []byte, signature string) (*Event, error)
}

// parseSignedEvent verifies a Stripe-signed webhook body and extracts the
// payment intent fields the bridge needs.
func parseSignedEvent(payload []byte, signature, secret string) (*Event, error) {
	if secret == "" {
		return nil, model.ErrInvalidSignature
	}

	raw, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, errors.Join(model.ErrInvalidSignature, err)
	}

	event := &Event{ID: raw.ID, Type: string(raw.Type)}
	if event.Type != EventPaymentSucceeded || raw.Data == nil {
		return event, nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(raw.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}
	event.PaymentReference = intent.ID
	event.OrderID = intent.Metadata[OrderIDMetadataKey]

	return event, nil
}
