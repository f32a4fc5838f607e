package handlers

import (
	"net/http"
)

// GetSettings returns the effective configuration with secrets masked.
// @Summary Effective settings
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string
// @Router /settings [get]
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings := map[string]string{}
	if h.settings != nil {
		settings = h.settings()
	}
	writeJSON(w, http.StatusOK, FilterSensitiveSettings(settings))
}
