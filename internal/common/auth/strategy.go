// Package auth authenticates requests to the gateway's administrative API.
//
// Two strategies are provided: a static API key read from a header, which may
// be configured as plain text or as a bcrypt hash, and HS256 bearer tokens.
// Strategies are looked up by type in an AuthenticatorRegistry, and
// Middleware accepts a request when any configured method succeeds.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"twilio-gateway/internal/common/errors"
)

// AuthStrategy validates a request against strategy-specific settings.
type AuthStrategy interface {
	Authenticate(r *http.Request, settings map[string]string) error
	GetType() string
}

// APIKeyAuthStrategy checks a static key sent in a header.
//
// Settings:
//   - "api_key": expected key, plain or a bcrypt hash
//   - "key_name": header carrying the key (default X-API-KEY)
type APIKeyAuthStrategy struct{}

func (s *APIKeyAuthStrategy) GetType() string {
	return "apikey"
}

func (s *APIKeyAuthStrategy) Authenticate(r *http.Request, settings map[string]string) error {
	expected := settings["api_key"]
	if expected == "" {
		return errors.ConfigError("apikey auth requires api_key")
	}

	keyName := settings["key_name"]
	if keyName == "" {
		keyName = "X-API-KEY"
	}

	provided := r.Header.Get(keyName)
	if provided == "" {
		return errors.AuthError(fmt.Sprintf("missing API key in header %s", keyName))
	}

	if isBcryptHash(expected) {
		if bcrypt.CompareHashAndPassword([]byte(expected), []byte(provided)) != nil {
			return errors.AuthError("invalid API key")
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		return errors.AuthError("invalid API key")
	}
	return nil
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

// HashAPIKey returns a bcrypt hash suitable for the API_KEY setting.
func HashAPIKey(key string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Issuer is the iss claim on admin tokens.
const Issuer = "twilio-gateway"

// Claims are the JWT claims carried by admin bearer tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTAuthStrategy validates HS256 bearer tokens.
//
// Settings:
//   - "secret": signing secret
type JWTAuthStrategy struct{}

func (s *JWTAuthStrategy) GetType() string {
	return "jwt"
}

func (s *JWTAuthStrategy) Authenticate(r *http.Request, settings map[string]string) error {
	secret := settings["secret"]
	if secret == "" {
		return errors.ConfigError("jwt auth requires secret")
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return errors.AuthError("missing Authorization header")
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return errors.AuthError("invalid Authorization header format")
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return errors.AuthError("invalid bearer token").WithCause(err)
	}
	return nil
}

// IssueToken signs an admin token for subject valid for ttl.
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.ConfigError("jwt secret is empty")
	}
	now := time.Now()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// AuthenticatorRegistry maps strategy types to implementations.
type AuthenticatorRegistry struct {
	strategies map[string]AuthStrategy
}

// NewAuthenticatorRegistry returns a registry holding the built-in strategies.
func NewAuthenticatorRegistry() *AuthenticatorRegistry {
	return &AuthenticatorRegistry{
		strategies: map[string]AuthStrategy{
			"apikey": &APIKeyAuthStrategy{},
			"jwt":    &JWTAuthStrategy{},
		},
	}
}

// Register adds or replaces a strategy.
func (a *AuthenticatorRegistry) Register(s AuthStrategy) {
	a.strategies[s.GetType()] = s
}

// Authenticate runs the strategy registered for authType.
func (a *AuthenticatorRegistry) Authenticate(authType string, r *http.Request, settings map[string]string) error {
	s, ok := a.strategies[authType]
	if !ok {
		return errors.ConfigError(fmt.Sprintf("unsupported auth type: %s", authType))
	}
	return s.Authenticate(r, settings)
}

// GetSupportedTypes lists registered strategy types in sorted order.
func (a *AuthenticatorRegistry) GetSupportedTypes() []string {
	types := make([]string, 0, len(a.strategies))
	for t := range a.strategies {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
