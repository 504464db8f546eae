package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SimulatedGateway stands in for Stripe during local development. Intents
// are fabricated locally; webhooks are still checked with the Stripe
// signing scheme when a secret is configured.
type SimulatedGateway struct {
	webhookSecret string
	logger        zerolog.Logger
}

// NewSimulatedGateway creates a gateway that never leaves the process.
func NewSimulatedGateway(webhookSecret string, logger zerolog.Logger) *SimulatedGateway {
	return &SimulatedGateway{
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("component", "simulated_payments").Logger(),
	}
}

// Name returns the gateway name.
func (g *SimulatedGateway) Name() string {
	return "simulated"
}

// CreateIntent returns a local intent without contacting a processor.
func (g *SimulatedGateway) CreateIntent(_ context.Context, orderID uuid.UUID, amount int64) (*Intent, error) {
	ref := "pi_sim_" + uuid.NewString()
	g.logger.Debug().Str("order_id", orderID.String()).Int64("amount", amount).Str("payment_intent", ref).Msg("simulated intent")

	return &Intent{Reference: ref, ClientSecret: ref + "_secret_simulated"}, nil
}

// ParseEvent verifies and decodes a signed notification.
func (g *SimulatedGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	return parseSignedEvent(payload, signature, g.webhookSecret)
}
