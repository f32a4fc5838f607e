package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"twilio-gateway/internal/common/auth"
	"twilio-gateway/internal/signature"
)

func TestRun_Sign(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"sign",
		"-token", "12345",
		"-url", "https://mycompany.com/myapp.php?foo=1&bar=2",
		"-param", "CallSid=CA1234567890ABCDE",
		"-param", "Caller=+12349013030",
	}, &out)
	require.NoError(t, err)

	want := signature.Compute("12345", "https://mycompany.com/myapp.php?foo=1&bar=2", map[string]string{
		"CallSid": "CA1234567890ABCDE",
		"Caller":  "+12349013030",
	})
	assert.Equal(t, want, strings.TrimSpace(out.String()))
}

func TestRun_SignErrors(t *testing.T) {
	t.Setenv("TWILIO_AUTH_TOKEN", "")

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"verify"}},
		{"missing token", []string{"sign", "-url", "https://x.example.com/"}},
		{"bad param", []string{"sign", "-token", "t", "-url", "https://x.example.com/", "-param", "novalue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(tt.args, &bytes.Buffer{}))
		})
	}
}

func TestRun_Token(t *testing.T) {
	secret := strings.Repeat("k", 32)
	var out bytes.Buffer
	require.NoError(t, run([]string{"token", "-secret", secret, "-subject", "ops"}, &out))

	req := httptest.NewRequest("GET", "/settings", nil)
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(out.String()))
	assert.NoError(t, (&auth.JWTAuthStrategy{}).Authenticate(req, map[string]string{"secret": secret}))
}

func TestRun_HashKey(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"hash-key", "-key", "s3cr3t"}, &out))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cr3t")))
}
