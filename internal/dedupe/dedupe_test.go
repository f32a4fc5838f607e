package dedupe

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twilio-gateway/internal/redis"
)

type failingReserver struct{}

func (failingReserver) Reserve(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingReserver) Release(context.Context, string) error {
	return errors.New("connection refused")
}

func TestStore_Reserve(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := redis.NewClient(&redis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })

	tests := []struct {
		name   string
		remote Reserver
	}{
		{"memory", nil},
		{"redis", rc},
		{"redis unavailable", failingReserver{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(time.Hour, tt.remote, nil)
			ctx := context.Background()

			assert.True(t, s.Reserve(ctx, tt.name+"-a"))
			assert.False(t, s.Reserve(ctx, tt.name+"-a"))
			assert.True(t, s.Reserve(ctx, tt.name+"-b"))

			s.Release(ctx, tt.name+"-a")
			assert.True(t, s.Reserve(ctx, tt.name+"-a"))
		})
	}
}

func TestStore_RedisSharedAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := redis.NewClient(&redis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })

	ctx := context.Background()
	first := New(time.Minute, rc, nil)
	second := New(time.Minute, rc, nil)

	assert.True(t, first.Reserve(ctx, "delivery"))
	assert.False(t, second.Reserve(ctx, "delivery"))

	mr.FastForward(2 * time.Minute)
	assert.True(t, second.Reserve(ctx, "delivery"))
}

func TestKey(t *testing.T) {
	withToken := httptest.NewRequest("POST", "/webhook/twilio/test", nil)
	withToken.Header.Set(IdempotencyHeader, "abc-123")
	assert.Equal(t, "token:abc-123", Key(withToken, "sig", []byte("body")))

	plain := httptest.NewRequest("POST", "/webhook/twilio/test", nil)
	k1 := Key(plain, "sig", []byte("body"))
	k2 := Key(plain, "sig", []byte("body"))
	k3 := Key(plain, "sig", []byte("other"))
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "body:")
}
