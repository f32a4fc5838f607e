package app

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/common/ratelimit"
	"twilio-gateway/internal/handlers"
)

// RouteGuards are the middlewares SetupRoutes applies per route group.
type RouteGuards struct {
	// Webhook authenticates Twilio requests.
	Webhook func(http.Handler) http.Handler
	// Admin authenticates operator requests.
	Admin func(http.Handler) http.Handler
	// RateLimiter may be nil.
	RateLimiter ratelimit.Limiter
	// RateLimitKey identifies clients; nil means ratelimit.IPKey.
	RateLimitKey func(*http.Request) string
	Logger       logging.Logger
}

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers, g RouteGuards) {
	limit := func(next http.Handler) http.Handler { return next }
	if g.RateLimiter != nil {
		key := g.RateLimitKey
		if key == nil {
			key = ratelimit.IPKey
		}
		limit = ratelimit.HTTPMiddleware(g.RateLimiter, key, g.Logger)
	}

	// Health check (no auth required)
	router.HandleFunc("/health", h.Health).Methods("GET")

	// Swagger UI (no auth required)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Twilio webhooks: rate limited, then signature checked
	webhook := func(fn http.HandlerFunc) http.Handler {
		return limit(g.Webhook(fn))
	}
	router.Handle("/webhook/twilio/test", webhook(h.TwilioTest)).Methods("POST")
	router.Handle("/webhook/twilio/save/order", webhook(h.SaveOrder)).Methods("POST")

	// Admin endpoints
	admin := router.NewRoute().Subrouter()
	admin.Use(limit, g.Admin)

	admin.HandleFunc("/webhook/twilio/estado/test", h.TwilioStatus).Methods("GET")

	admin.HandleFunc("/whatsapp/message-status/{messageId}", h.MessageStatus).Methods("GET")
	admin.HandleFunc("/whatsapp/connection-status", h.ConnectionStatus).Methods("GET")
	admin.HandleFunc("/whatsapp/is-connected", h.IsConnected).Methods("GET")
	admin.HandleFunc("/whatsapp/restart-connection", h.RestartConnection).Methods("POST")
	admin.HandleFunc("/whatsapp/test/message", h.SendTestMessage).Methods("POST")
	admin.HandleFunc("/health/check", h.ServiceHealth).Methods("GET")

	admin.HandleFunc("/orders", h.ListOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")

	admin.HandleFunc("/settings", h.GetSettings).Methods("GET")
}
