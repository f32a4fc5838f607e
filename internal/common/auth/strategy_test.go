package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twilio-gateway/internal/common/errors"
	"twilio-gateway/internal/common/logging"
)

const jwtSecret = "0123456789abcdef0123456789abcdef"

func TestAPIKeyAuthStrategy_Authenticate(t *testing.T) {
	hashed, err := HashAPIKey("hashed-key")
	require.NoError(t, err)

	tests := []struct {
		name      string
		settings  map[string]string
		headers   map[string]string
		wantType  errors.ErrorType
		expectErr bool
	}{
		{
			name:     "valid plain key",
			settings: map[string]string{"api_key": "secret-key"},
			headers:  map[string]string{"X-API-KEY": "secret-key"},
		},
		{
			name:     "valid hashed key",
			settings: map[string]string{"api_key": hashed},
			headers:  map[string]string{"X-API-KEY": "hashed-key"},
		},
		{
			name:     "custom header",
			settings: map[string]string{"api_key": "secret-key", "key_name": "X-Admin-Key"},
			headers:  map[string]string{"X-Admin-Key": "secret-key"},
		},
		{
			name:      "wrong key",
			settings:  map[string]string{"api_key": "secret-key"},
			headers:   map[string]string{"X-API-KEY": "guess"},
			expectErr: true,
			wantType:  errors.ErrTypeAuth,
		},
		{
			name:      "wrong hashed key",
			settings:  map[string]string{"api_key": hashed},
			headers:   map[string]string{"X-API-KEY": hashed},
			expectErr: true,
			wantType:  errors.ErrTypeAuth,
		},
		{
			name:      "missing header",
			settings:  map[string]string{"api_key": "secret-key"},
			expectErr: true,
			wantType:  errors.ErrTypeAuth,
		},
		{
			name:      "not configured",
			settings:  map[string]string{},
			headers:   map[string]string{"X-API-KEY": "secret-key"},
			expectErr: true,
			wantType:  errors.ErrTypeConfig,
		},
	}

	s := &APIKeyAuthStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/whatsapp/is-connected", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			err := s.Authenticate(r, tt.settings)
			if !tt.expectErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.wantType))
		})
	}
}

func TestJWTAuthStrategy_Authenticate(t *testing.T) {
	valid, err := IssueToken(jwtSecret, "ops", time.Hour)
	require.NoError(t, err)
	otherSecret, err := IssueToken("ffffffffffffffffffffffffffffffff", "ops", time.Hour)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}})
	expiredToken, err := expired.SignedString([]byte(jwtSecret))
	require.NoError(t, err)

	wrongIssuer := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	wrongIssuerToken, err := wrongIssuer.SignedString([]byte(jwtSecret))
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    string
		expectErr bool
	}{
		{"valid token", "Bearer " + valid, false},
		{"missing header", "", true},
		{"basic scheme", "Basic abc", true},
		{"other secret", "Bearer " + otherSecret, true},
		{"expired", "Bearer " + expiredToken, true},
		{"wrong issuer", "Bearer " + wrongIssuerToken, true},
		{"garbage", "Bearer not.a.jwt", true},
	}

	s := &JWTAuthStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/orders", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			err := s.Authenticate(r, map[string]string{"secret": jwtSecret})
			if tt.expectErr {
				assert.True(t, errors.IsType(err, errors.ErrTypeAuth))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIssueToken_RequiresSecret(t *testing.T) {
	_, err := IssueToken("", "ops", time.Hour)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestAuthenticatorRegistry(t *testing.T) {
	reg := NewAuthenticatorRegistry()
	assert.Equal(t, []string{"apikey", "jwt"}, reg.GetSupportedTypes())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	err := reg.Authenticate("basic", r, nil)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestMiddleware(t *testing.T) {
	reg := NewAuthenticatorRegistry()
	logger := logging.NewDefaultLogger()
	token, err := IssueToken(jwtSecret, "ops", time.Hour)
	require.NoError(t, err)

	methods := []Method{
		{Type: "apikey", Settings: map[string]string{"api_key": "secret-key"}},
		{Type: "jwt", Settings: map[string]string{"secret": jwtSecret}},
	}

	tests := []struct {
		name       string
		methods    []Method
		headers    map[string]string
		wantStatus int
	}{
		{"api key", methods, map[string]string{"X-API-KEY": "secret-key"}, http.StatusOK},
		{"bearer token", methods, map[string]string{"Authorization": "Bearer " + token}, http.StatusOK},
		{"no credentials", methods, nil, http.StatusUnauthorized},
		{"nothing configured", nil, map[string]string{"X-API-KEY": "secret-key"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := reg.Middleware(tt.methods, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			r := httptest.NewRequest(http.MethodGet, "/whatsapp/connection-status", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
