// Package circuitbreaker guards calls to remote dependencies with
// sony/gobreaker so a failing service is not hammered on every request.
package circuitbreaker

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"twilio-gateway/internal/common/errors"
	"twilio-gateway/internal/common/logging"
)

// Config tunes when the breaker opens and how it recovers.
type Config struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int
	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration
	// MaxConcurrentRequests are allowed through while half-open.
	MaxConcurrentRequests int
}

// DefaultConfig suits calls to the messaging service.
func DefaultConfig() Config {
	return Config{
		MaxFailures:           5,
		Timeout:               30 * time.Second,
		MaxConcurrentRequests: 1,
	}
}

func (c Config) Validate() error {
	if c.MaxFailures <= 0 {
		return fmt.Errorf("MaxFailures must be positive, got %d", c.MaxFailures)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("Timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("MaxConcurrentRequests must be positive, got %d", c.MaxConcurrentRequests)
	}
	return nil
}

// Stats is a point-in-time view of a breaker.
type Stats struct {
	Name                string `json:"name"`
	State               string `json:"state"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
	TotalFailures       int    `json:"total_failures"`
	TotalSuccesses      int    `json:"total_successes"`
}

// Breaker wraps a gobreaker.CircuitBreaker.
type Breaker struct {
	name    string
	breaker *gobreaker.CircuitBreaker
}

// New builds a breaker. An invalid config falls back to DefaultConfig.
func New(name string, cfg Config, logger logging.Logger) *Breaker {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn("Invalid circuit breaker config, using defaults",
			logging.Field{Key: "breaker", Value: name},
			logging.Field{Key: "error", Value: err.Error()},
		)
		cfg = DefaultConfig()
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: uint32(cfg.MaxConcurrentRequests),
		Interval:    time.Minute,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(cfg.MaxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				logging.Field{Key: "breaker", Value: name},
				logging.Field{Key: "from", Value: from.String()},
				logging.Field{Key: "to", Value: to.String()},
			)
		},
		IsSuccessful: isSuccessful,
	}

	return &Breaker{name: name, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// isSuccessful keeps caller mistakes and cancellations from tripping the breaker.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if stderrors.Is(err, context.Canceled) {
		return true
	}
	switch errors.GetType(err) {
	case errors.ErrTypeValidation, errors.ErrTypeNotFound:
		return true
	}
	return false
}

// Execute runs fn unless the circuit is open.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})

	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.ConnectionError(fmt.Sprintf("circuit breaker '%s' is open", b.name), err).WithCode("circuit_open")
	}
	return err
}

// State returns "closed", "open" or "half-open".
func (b *Breaker) State() string {
	return b.breaker.State().String()
}

func (b *Breaker) Stats() Stats {
	c := b.breaker.Counts()
	return Stats{
		Name:                b.name,
		State:               b.State(),
		ConsecutiveFailures: int(c.ConsecutiveFailures),
		TotalFailures:       int(c.TotalFailures),
		TotalSuccesses:      int(c.TotalSuccesses),
	}
}
