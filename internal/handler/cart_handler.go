package handler

import (
	"net/http"

	"bakery-storefront/internal/model"
	"bakery-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartTokenHeader carries the device's cart token in both directions.
const CartTokenHeader = "X-Cart-Token"

// CartHandler handles cart requests. Carts belong to a device, not an account.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// token returns the request's cart token, issuing a new one when the
// device has none yet. The token is echoed in the response header.
func (h *CartHandler) token(w http.ResponseWriter, r *http.Request) string {
	token := r.Header.Get(CartTokenHeader)
	if token == "" {
		token = uuid.NewString()
	}
	w.Header().Set(CartTokenHeader, token)
	return token
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), h.token(w, r))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	token := h.token(w, r)

	var req model.CartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, r, err, h.logger)
		return
	}

	c, err := h.service.AddItem(r.Context(), token, &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// SetQuantity handles PATCH /api/cart/items/{productId}.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	token := h.token(w, r)

	var req model.CartQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, r, err, h.logger)
		return
	}

	c, err := h.service.SetQuantity(r.Context(), token, chi.URLParam(r, "productId"), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// RemoveItem handles DELETE /api/cart/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.RemoveItem(r.Context(), h.token(w, r), chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), h.token(w, r)); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
