package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows browser access to the admin API from the given origins. Twilio
// itself never sends preflight requests.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-API-KEY", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           600,
	})
	return c.Handler
}
