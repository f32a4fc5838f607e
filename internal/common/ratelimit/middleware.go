package ratelimit

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"twilio-gateway/internal/common/logging"
)

// HTTPMiddleware rejects requests over budget with 429. Backend errors fail
// open so an unavailable Redis never blocks webhooks.
func HTTPMiddleware(l Limiter, keyFunc func(*http.Request) string, logger logging.Logger) func(http.Handler) http.Handler {
	cfg := l.Config()
	retryAfter := strconv.Itoa(int(math.Ceil(cfg.Window.Seconds() / float64(cfg.Limit))))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			allowed, remaining, err := l.Allow(r.Context(), key)
			if err != nil {
				logger.WithContext(r.Context()).Error("Rate limiter unavailable, allowing request", err,
					logging.Field{Key: "key", Value: key},
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				logger.WithContext(r.Context()).Warn("Rate limit exceeded",
					logging.Field{Key: "key", Value: key},
					logging.Field{Key: "path", Value: r.URL.Path},
				)
				w.Header().Set("Retry-After", retryAfter)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IPKey identifies the client by the connection address.
func IPKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ForwardedIPKey identifies the client by the first X-Forwarded-For hop,
// X-Real-IP or the connection address, in that order. Only use it behind a
// proxy that overwrites those headers.
func ForwardedIPKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return IPKey(r)
}

// KeyFunc returns ForwardedIPKey when forwarding headers are trusted and
// IPKey otherwise.
func KeyFunc(trustProxy bool) func(*http.Request) string {
	if trustProxy {
		return ForwardedIPKey
	}
	return IPKey
}
