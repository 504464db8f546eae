package handler

import (
	"net/http"

	"bakery-storefront/internal/auth"
	"bakery-storefront/internal/model"
	"bakery-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles the kitchen board, status changes and order views.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// orderID parses the {id} path parameter. A malformed id names no order.
func orderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, model.ErrOrderNotFound
	}
	return id, nil
}

// UpdateStatus handles PATCH /api/staff/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	var req model.StatusUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, r, err, h.logger)
		return
	}
	target, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	order, err := h.service.Transition(r.Context(), id, target, auth.PrincipalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	detail, err := h.service.GetOrder(r.Context(), auth.PrincipalFrom(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Board handles GET /api/staff/board.
func (h *OrderHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Board(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

// History handles GET /api/staff/orders/history.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.History(r.Context(), auth.PrincipalFrom(r.Context()), limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Mine handles GET /api/me/orders.
func (h *OrderHandler) Mine(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.CustomerOrders(r.Context(), auth.PrincipalFrom(r.Context()), limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
