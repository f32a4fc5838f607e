package circuitbreaker

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twilio-gateway/internal/common/errors"
	"twilio-gateway/internal/common/logging"
)

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{MaxFailures: 0, Timeout: time.Second, MaxConcurrentRequests: 1}.Validate())
	assert.Error(t, Config{MaxFailures: 1, Timeout: 0, MaxConcurrentRequests: 1}.Validate())
	assert.Error(t, Config{MaxFailures: 1, Timeout: time.Second}.Validate())
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	b := New("whatsapp", Config{MaxFailures: 2, Timeout: time.Hour, MaxConcurrentRequests: 1}, logging.NewDefaultLogger())
	ctx := context.Background()
	boom := errors.ConnectionError("unavailable", stderrors.New("dial"))

	for i := 0; i < 2; i++ {
		err := b.Execute(ctx, func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", b.State())

	called := false
	err := b.Execute(ctx, func(context.Context) error { called = true; return nil })
	require.Error(t, err)
	assert.False(t, called)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "circuit_open", appErr.Code)
	assert.Equal(t, errors.ErrTypeConnection, appErr.Type)
}

func TestBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	b := New("whatsapp", Config{MaxFailures: 1, Timeout: time.Hour, MaxConcurrentRequests: 1}, nil)
	ctx := context.Background()

	_ = b.Execute(ctx, func(context.Context) error { return errors.ValidationError("bad number") })
	_ = b.Execute(ctx, func(context.Context) error { return errors.NotFoundError("message") })
	_ = b.Execute(ctx, func(context.Context) error { return context.Canceled })
	assert.Equal(t, "closed", b.State())

	stats := b.Stats()
	assert.Equal(t, "whatsapp", stats.Name)
	assert.Equal(t, 0, stats.TotalFailures)
	assert.Equal(t, 3, stats.TotalSuccesses)
}

func TestBreaker_CancelledContextSkipsCall(t *testing.T) {
	b := New("whatsapp", DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := b.Execute(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestNew_InvalidConfigFallsBack(t *testing.T) {
	b := New("x", Config{}, nil)
	assert.Equal(t, "closed", b.State())
}
