package handler

import (
	"net/http"

	"bakery-storefront/internal/auth"
	"bakery-storefront/internal/cart"
	"bakery-storefront/internal/model"
	"bakery-storefront/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout and the dev payment simulation.
type CheckoutHandler struct {
	checkout service.CheckoutService
	carts    service.CartService
	logger   zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler. carts may be nil.
func NewCheckoutHandler(checkout service.CheckoutService, carts service.CartService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		carts:    carts,
		logger:   logger.With().Str("handler", "checkout").Logger(),
	}
}

// Checkout handles POST /api/checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, r, err, h.logger)
		return
	}

	resp, err := h.checkout.Checkout(r.Context(), auth.PrincipalFrom(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.clearCart(r)
	writeJSON(w, http.StatusCreated, resp)
}

// Simulate handles POST /api/dev/simulate-payment.
func (h *CheckoutHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, r, err, h.logger)
		return
	}

	resp, err := h.checkout.SimulatePayment(r.Context(), auth.PrincipalFrom(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.clearCart(r)
	writeJSON(w, http.StatusCreated, resp)
}

// clearCart empties the caller's cart once the order exists. Failure only
// leaves a stale cart behind.
func (h *CheckoutHandler) clearCart(r *http.Request) {
	token := r.Header.Get(CartTokenHeader)
	if h.carts == nil || !cart.ValidToken(token) {
		return
	}
	if err := h.carts.Clear(r.Context(), token); err != nil {
		h.logger.Warn().Err(err).Msg("failed to clear cart after checkout")
	}
}
