package handler

import (
	"net/http"

	"bakery-storefront/internal/auth"
	"bakery-storefront/internal/model"
	"bakery-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler handles menu requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products with pagination.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	products, err := h.service.ListMenu(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// ListAll handles GET /api/admin/products.
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAll(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Save handles PUT /api/admin/products.
func (h *ProductHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, r, err, h.logger)
		return
	}

	product, err := h.service.Save(r.Context(), auth.PrincipalFrom(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// SetActive handles PATCH /api/admin/products/{id}/active.
func (h *ProductHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req model.ProductActiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, r, err, h.logger)
		return
	}
	if err := model.Validate(&req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.SetActive(r.Context(), auth.PrincipalFrom(r.Context()), chi.URLParam(r, "id"), *req.IsActive)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
