// Package dedupe suppresses webhook retries. Twilio redelivers a request when
// it does not see a timely 2xx, so each delivery is reserved by key for a
// window and later deliveries with the same key are reported as duplicates.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"twilio-gateway/internal/common/logging"
)

// IdempotencyHeader is set by Twilio on every webhook delivery and kept
// across retries.
const IdempotencyHeader = "I-Twilio-Idempotency-Token"

const keyPrefix = "twilio:dedupe:"

// Reserver is the distributed backend, implemented by the redis client.
type Reserver interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Store records seen deliveries. It uses the Reserver when one is configured
// and falls back to process memory when the Reserver fails.
type Store struct {
	ttl    time.Duration
	remote Reserver
	local  *gocache.Cache
	logger logging.Logger
}

// New returns a store. remote may be nil.
func New(ttl time.Duration, remote Reserver, logger logging.Logger) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Store{
		ttl:    ttl,
		remote: remote,
		local:  gocache.New(ttl, ttl/4+time.Minute),
		logger: logger.WithFields(logging.Field{Key: "component", Value: "dedupe"}),
	}
}

// Reserve returns true the first time key is seen within the window.
func (s *Store) Reserve(ctx context.Context, key string) bool {
	key = keyPrefix + key
	if s.remote != nil {
		ok, err := s.remote.Reserve(ctx, key, s.ttl)
		if err == nil {
			return ok
		}
		s.logger.WithContext(ctx).Warn("Distributed dedupe unavailable, using local store", logging.Err(err))
	}
	return s.local.Add(key, struct{}{}, s.ttl) == nil
}

// Release forgets key so a failed delivery can be retried.
func (s *Store) Release(ctx context.Context, key string) {
	key = keyPrefix + key
	s.local.Delete(key)
	if s.remote != nil {
		if err := s.remote.Release(ctx, key); err != nil {
			s.logger.WithContext(ctx).Warn("Failed to release dedupe key", logging.Err(err))
		}
	}
}

// Key derives the delivery key: Twilio's idempotency token when present,
// otherwise the SHA-256 of signature and body.
func Key(r *http.Request, signature string, body []byte) string {
	if token := r.Header.Get(IdempotencyHeader); token != "" {
		return "token:" + token
	}
	h := sha256.New()
	h.Write([]byte(signature))
	h.Write([]byte{0})
	h.Write(body)
	return "body:" + hex.EncodeToString(h.Sum(nil))
}
