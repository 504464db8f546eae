package payment

import (
	"context"
	"errors"
	"time"

	"bakery-storefront/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// ErrGatewayUnavailable is returned while the breaker is open.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// BreakerConfig tunes the circuit breaker in front of a gateway.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts. Zero never clears them.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// FailureRatio of failed intent creations that trips the breaker.
	FailureRatio float64
	// MinRequests before FailureRatio is evaluated.
	MinRequests uint32
}

// DefaultBreakerConfig returns the production breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

type breakerGateway struct {
	inner   Gateway
	breaker *gobreaker.CircuitBreaker[*Intent]
	logger  zerolog.Logger
}

// NewBreakerGateway guards inner's CreateIntent with a circuit breaker so a
// failing processor fails checkouts fast instead of holding requests open.
// Webhook verification is local and always passes straight through.
func NewBreakerGateway(inner Gateway, cfg BreakerConfig, logger zerolog.Logger) Gateway {
	log := logger.With().Str("component", "payment_breaker").Str("gateway", inner.Name()).Logger()

	settings := gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Payment gateway breaker state changed")
			metrics.GatewayBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
		// A cancelled checkout says nothing about the processor's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	metrics.GatewayBreakerState.WithLabelValues(inner.Name()).Set(0)

	return &breakerGateway{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[*Intent](settings),
		logger:  log,
	}
}

func (g *breakerGateway) Name() string {
	return g.inner.Name()
}

func (g *breakerGateway) CreateIntent(ctx context.Context, orderID uuid.UUID, amount int64) (*Intent, error) {
	intent, err := g.breaker.Execute(func() (*Intent, error) {
		return g.inner.CreateIntent(ctx, orderID, amount)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		g.logger.Warn().Str("order_id", orderID.String()).Msg("Payment intent refused, breaker open")
		return nil, errors.Join(ErrGatewayUnavailable, err)
	}
	return intent, err
}

func (g *breakerGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	return g.inner.ParseEvent(payload, signature)
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
