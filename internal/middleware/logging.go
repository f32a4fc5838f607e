package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"twilio-gateway/internal/common/logging"
)

// RequestIDHeader carries the request id in and out of the gateway.
const RequestIDHeader = "X-Request-ID"

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestID reuses an incoming X-Request-ID or generates one, and stores it in
// the request context for the logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

// Logging logs every HTTP request with method, path, status and duration.
// 5xx responses log at error level and 4xx at warn.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	logger = logger.WithFields(logging.Field{Key: "component", Value: "http"})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			fields := []logging.Field{
				{Key: "method", Value: r.Method},
				{Key: "path", Value: r.URL.Path},
				{Key: "status", Value: wrapped.statusCode},
				{Key: "duration_ms", Value: time.Since(start).Milliseconds()},
				{Key: "remote_addr", Value: r.RemoteAddr},
			}

			if r.URL.RawQuery != "" {
				fields = append(fields, logging.Field{Key: "query", Value: r.URL.RawQuery})
			}
			if ua := r.Header.Get("User-Agent"); ua != "" {
				fields = append(fields, logging.Field{Key: "user_agent", Value: ua})
			}

			log := logger.WithContext(r.Context())
			switch {
			case wrapped.statusCode >= 500:
				log.Error("HTTP request completed", nil, fields...)
			case wrapped.statusCode >= 400:
				log.Warn("HTTP request completed", fields...)
			default:
				log.Info("HTTP request completed", fields...)
			}
		})
	}
}
