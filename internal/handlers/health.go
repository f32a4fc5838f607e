package handlers

import (
	"context"
	"net/http"
	"time"

	"twilio-gateway/internal/circuitbreaker"
	"twilio-gateway/internal/monitor"
)

// HealthResponse describes the gateway and what it last saw of its dependencies.
type HealthResponse struct {
	Status   string                `json:"status"`
	Version  string                `json:"version,omitempty"`
	Uptime   string                `json:"uptime"`
	Storage  string                `json:"storage"`
	Breaker  *circuitbreaker.Stats `json:"circuit_breaker,omitempty"`
	WhatsApp *monitor.Snapshot     `json:"whatsapp,omitempty"`
}

// Health is the unauthenticated liveness endpoint. It does not call the
// messaging service.
// @Summary Gateway health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Storage: "disabled",
	}

	status := http.StatusOK
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Health(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Storage = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Storage = "ok"
		}
	}

	if h.whatsapp != nil {
		stats := h.whatsapp.BreakerStats()
		resp.Breaker = &stats
	}
	if h.monitor != nil {
		if snap, ok := h.monitor.Shared(r.Context()); ok {
			resp.WhatsApp = &snap
		}
	}

	writeJSON(w, status, resp)
}

// ServiceHealth calls the messaging service's health check.
// @Summary Messaging service health
// @Tags health
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} whatsapp.HealthCheckResponse
// @Failure 502 {object} ErrorResponse
// @Router /health/check [get]
func (h *Handlers) ServiceHealth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.whatsapp.CheckHealth(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Messaging service health check failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
