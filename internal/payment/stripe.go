package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// intentCreator is the slice of the Stripe payment intent client we use.
type intentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeGateway creates Stripe payment intents and verifies Stripe webhooks.
type StripeGateway struct {
	intents       intentCreator
	webhookSecret string
	currency      string
	logger        zerolog.Logger
}

// NewStripeGateway creates a gateway authenticated with secretKey.
func NewStripeGateway(secretKey, webhookSecret, currency string, logger zerolog.Logger) *StripeGateway {
	client := &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}
	return newStripeGateway(client, webhookSecret, currency, logger)
}

func newStripeGateway(intents intentCreator, webhookSecret, currency string, logger zerolog.Logger) *StripeGateway {
	return &StripeGateway{
		intents:       intents,
		webhookSecret: webhookSecret,
		currency:      currency,
		logger:        logger.With().Str("component", "stripe").Logger(),
	}
}

// Name returns the gateway name.
func (g *StripeGateway) Name() string {
	return "stripe"
}

// CreateIntent opens a payment intent with automatic payment methods.
func (g *StripeGateway) CreateIntent(ctx context.Context, orderID uuid.UUID, amount int64) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(OrderIDMetadataKey, orderID.String())

	pi, err := g.intents.New(params)
	if err != nil {
		g.logger.Error().Err(err).Str("order_id", orderID.String()).Int64("amount", amount).Msg("failed to create payment intent")
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	g.logger.Debug().
		Str("order_id", orderID.String()).
		Str("payment_intent", pi.ID).
		Msg("payment intent created")

	return &Intent{Reference: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseEvent verifies a Stripe-Signature header.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	return parseSignedEvent(payload, signature, g.webhookSecret)
}
