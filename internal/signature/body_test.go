package signature

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreserveRequestBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("payload"))

	body, err := PreserveRequestBody(r, 0)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))

	for i := 0; i < 2; i++ {
		rc, err := r.GetBody()
		require.NoError(t, err)
		b, _ := io.ReadAll(rc)
		assert.Equal(t, "payload", string(b))
	}

	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
	assert.Equal(t, int64(len("payload")), r.ContentLength)
}

func TestPreserveRequestBody_Limit(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr error
	}{
		{"under limit", "abc", 5, nil},
		{"at limit", "abcde", 5, nil},
		{"over limit", "abcdef", 5, ErrBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			body, err := PreserveRequestBody(r, tt.limit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestPreserveRequestBody_NoBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	body, err := PreserveRequestBody(r, 10)
	require.NoError(t, err)
	assert.Empty(t, body)
}
