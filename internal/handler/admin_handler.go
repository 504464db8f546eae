package handler

import (
	"net/http"

	"bakery-storefront/internal/auth"
	"bakery-storefront/internal/model"
	"bakery-storefront/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler serves the owner dashboard and store settings.
type AdminHandler struct {
	reports  service.ReportService
	settings service.SettingsService
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(reports service.ReportService, settings service.SettingsService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		reports:  reports,
		settings: settings,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

// Overview handles GET /api/owner/overview.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.reports.Overview(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// PickupDays handles GET /api/settings/pickup-days.
func (h *AdminHandler) PickupDays(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdatePickupDays handles PUT /api/settings/pickup-days.
func (h *AdminHandler) UpdatePickupDays(w http.ResponseWriter, r *http.Request) {
	var req model.PickupDaysRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, r, err, h.logger)
		return
	}

	settings, err := h.settings.UpdatePickupDays(r.Context(), auth.PrincipalFrom(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
