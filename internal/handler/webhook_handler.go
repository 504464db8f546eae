package handler

import (
	"io"
	"net/http"

	"bakery-storefront/internal/model"
	"bakery-storefront/internal/service"

	"github.com/rs/zerolog"
)

// Stripe caps event payloads well below this.
const maxWebhookBytes = 64 << 10

// SignatureHeader carries the processor's webhook signature.
const SignatureHeader = "Stripe-Signature"

// WebhookHandler receives payment processor notifications.
type WebhookHandler struct {
	payments service.PaymentService
	logger   zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(payments service.PaymentService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		payments: payments,
		logger:   logger.With().Str("handler", "webhook").Logger(),
	}
}

// Stripe handles POST /api/webhooks/stripe. The raw body is verified, so it
// is read before any decoding. A 2xx tells the processor to stop retrying;
// a 500 asks it to deliver again.
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "could not read webhook body", h.logger)
		return
	}

	if err := h.payments.HandleNotification(r.Context(), payload, r.Header.Get(SignatureHeader)); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusOK)
}
