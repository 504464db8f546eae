// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bakery"

// HTTP collectors, labelled by chi route pattern rather than raw path.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being served",
		},
	)
)

// Order lifecycle collectors.
var (
	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Pending orders created by checkout",
		},
	)

	CheckoutRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_rejected_total",
			Help:      "Checkouts refused before an order was created, by error code",
		},
		[]string{"code"},
	)

	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Applied order status transitions",
		},
		[]string{"from", "to"},
	)

	PaymentNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_notifications_total",
			Help:      "Payment webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Order events that could not be published",
		},
		[]string{"event_type"},
	)
)

// Payment gateway collectors.
var (
	GatewayBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "payment_gateway_breaker_state",
			Help:      "Payment gateway circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"gateway"},
	)
)

// Payment notification outcomes.
const (
	OutcomePaid          = "paid"
	OutcomeDuplicate     = "duplicate"
	OutcomeCancelled     = "cancelled"
	OutcomeUnknownOrder  = "unknown_order"
	OutcomeIgnored       = "ignored"
	OutcomeBadSignature  = "bad_signature"
	OutcomeMissingOrder  = "missing_order_reference"
	OutcomeInternalError = "error"
)
