package auth

import (
	"encoding/json"
	"net/http"

	"twilio-gateway/internal/common/errors"
	"twilio-gateway/internal/common/logging"
)

// Method pairs a strategy type with its settings.
type Method struct {
	Type     string
	Settings map[string]string
}

// Middleware admits a request when any of methods authenticates it. With no
// methods every request is refused as a configuration error.
func (a *AuthenticatorRegistry) Middleware(methods []Method, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var lastErr error = errors.ConfigError("admin authentication is not configured")
			for _, m := range methods {
				err := a.Authenticate(m.Type, r, m.Settings)
				if err == nil {
					next.ServeHTTP(w, r)
					return
				}
				lastErr = err
			}

			logger.WithContext(r.Context()).Warn("Admin request rejected",
				logging.Field{Key: "path", Value: r.URL.Path},
				logging.Field{Key: "remote_addr", Value: r.RemoteAddr},
				logging.Field{Key: "error", Value: lastErr.Error()},
			)

			status := errors.HTTPStatus(lastErr)
			message := "unauthorized"
			if status >= http.StatusInternalServerError {
				message = "authentication unavailable"
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
		})
	}
}
