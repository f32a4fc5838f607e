package signature

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twilio-gateway/internal/common/logging"
)

const testSecret = "s3cret-auth-token"

type recorded struct {
	called   bool
	body     string
	material Material
}

func newTestGate(t *testing.T, cfg GateConfig) (*Gate, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.NewZapLogger(logging.LogConfig{Level: logging.DebugLevel, Output: &buf})
	require.NoError(t, err)
	return NewGate(cfg, logger), &buf
}

func serve(g *Gate, r *http.Request) (*httptest.ResponseRecorder, *recorded) {
	rec := &recorded{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.called = true
		b, _ := io.ReadAll(r.Body)
		rec.body = string(b)
		rec.material, _ = MaterialFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	w := httptest.NewRecorder()
	g.Middleware(next).ServeHTTP(w, r)
	return w, rec
}

func formRequest(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", formType)
	return r
}

func decodeRejection(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGate_AcceptsSignedFormHeader(t *testing.T) {
	g, _ := newTestGate(t, GateConfig{Secret: testSecret})

	form := url.Values{"From": {"+1555"}, "Body": {"hello"}}
	r := formRequest("https://example.com/webhook/save", form)
	r.Header.Set(DefaultHeader, Compute(testSecret, "https://example.com/webhook/save", map[string]string{"From": "+1555", "Body": "hello"}))

	w, rec := serve(g, r)
	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, rec.called)
	assert.Equal(t, form.Encode(), rec.body)
	assert.Equal(t, OriginHeader, rec.material.Origin)
}

func TestGate_AcceptsSignatureFromFormField(t *testing.T) {
	g, _ := newTestGate(t, GateConfig{Secret: testSecret})

	target := "https://example.com/webhook/twilio/save/order"
	token := Compute(testSecret, target, map[string]string{"orderType": "winch_out", "phoneNumber": "3001234567"})
	form := url.Values{"orderType": {"winch_out"}, "phoneNumber": {"3001234567"}, "Signature": {token}}

	w, rec := serve(g, formRequest(target, form))
	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, rec.called)
	assert.Equal(t, OriginBodyForm, rec.material.Origin)
	assert.Equal(t, "Signature", rec.material.Field)
	assert.Equal(t, form.Encode(), rec.body)
}

func TestGate_JSONBody(t *testing.T) {
	body := `{"orderType":"jump_start","phoneNumber":"3001234567"}`
	sum := sha256.Sum256([]byte(body))
	hash := hex.EncodeToString(sum[:])

	tests := []struct {
		name       string
		target     string
		signURL    string
		wantStatus int
	}{
		{
			name:       "url only",
			target:     "https://example.com/webhook/twilio/save/order",
			signURL:    "https://example.com/webhook/twilio/save/order",
			wantStatus: http.StatusOK,
		},
		{
			name:       "matching body hash",
			target:     "https://example.com/webhook/twilio/save/order?bodySHA256=" + hash,
			signURL:    "https://example.com/webhook/twilio/save/order?bodySHA256=" + hash,
			wantStatus: http.StatusOK,
		},
		{
			name:       "body hash mismatch",
			target:     "https://example.com/webhook/twilio/save/order?bodySHA256=00ff",
			signURL:    "https://example.com/webhook/twilio/save/order?bodySHA256=00ff",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGate(t, GateConfig{Secret: testSecret, ValidateBodyHash: true})
			r := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(body))
			r.Header.Set("Content-Type", jsonType)
			r.Header.Set(DefaultHeader, Compute(testSecret, tt.signURL, nil))

			w, rec := serve(g, r)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, rec.called)
			if rec.called {
				assert.Equal(t, body, rec.body)
			}
		})
	}
}

func TestGate_Rejections(t *testing.T) {
	target := "https://example.com/webhook/save"
	params := map[string]string{"From": "+1555", "Body": "hello"}
	form := url.Values{"From": {"+1555"}, "Body": {"hello"}}

	tests := []struct {
		name       string
		secret     string
		token      string
		wantStatus int
		wantReason Reason
	}{
		{"no material", testSecret, "", http.StatusUnauthorized, ReasonMissing},
		{"wrong token", testSecret, "bm90LWEtc2lnbmF0dXJl", http.StatusUnauthorized, ReasonInvalid},
		{"raw secret as token", testSecret, testSecret, http.StatusUnauthorized, ReasonInvalid},
		{"signed with other secret", testSecret, Compute("other", target, params), http.StatusUnauthorized, ReasonInvalid},
		{"secret not configured", "", Compute(testSecret, target, params), http.StatusInternalServerError, ReasonMisconfigured},
		{"missing wins over misconfigured", "", "", http.StatusUnauthorized, ReasonMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGate(t, GateConfig{Secret: tt.secret})
			r := formRequest(target, form)
			if tt.token != "" {
				r.Header.Set(DefaultHeader, tt.token)
			}

			w, rec := serve(g, r)
			assert.False(t, rec.called)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, string(tt.wantReason), decodeRejection(t, w)["error"])
		})
	}
}

func TestGate_BodyTooLarge(t *testing.T) {
	g, _ := newTestGate(t, GateConfig{Secret: testSecret, MaxBodyBytes: 8})
	r := formRequest("https://example.com/webhook/save", url.Values{"Body": {"much longer than eight"}})

	w, rec := serve(g, r)
	assert.False(t, rec.called)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestGate_CanonicalURL(t *testing.T) {
	params := map[string]string{"Body": "hello"}
	form := url.Values{"Body": {"hello"}}

	tests := []struct {
		name    string
		cfg     GateConfig
		target  string
		headers map[string]string
		signURL string
	}{
		{
			name:    "forwarded proto and host",
			cfg:     GateConfig{Secret: testSecret},
			target:  "http://gateway:8080/webhook/twilio/test",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "hooks.example.com"},
			signURL: "https://hooks.example.com/webhook/twilio/test",
		},
		{
			name:    "public base url",
			cfg:     GateConfig{Secret: testSecret, PublicBaseURL: "https://public.example.com/"},
			target:  "http://gateway:8080/webhook/twilio/test?attempt=2",
			signURL: "https://public.example.com/webhook/twilio/test?attempt=2",
		},
		{
			name:    "query string is signed",
			cfg:     GateConfig{Secret: testSecret},
			target:  "https://example.com/webhook/twilio/test?foo=1&bar=2",
			signURL: "https://example.com/webhook/twilio/test?foo=1&bar=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGate(t, tt.cfg)
			r := formRequest(tt.target, form)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			r.Header.Set(DefaultHeader, Compute(testSecret, tt.signURL, params))

			w, rec := serve(g, r)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, rec.called)
		})
	}
}

func TestGate_AuditLogRedactsCredentials(t *testing.T) {
	g, logs := newTestGate(t, GateConfig{Secret: testSecret})
	token := "bm90LWEtdmFsaWQtc2lnbmF0dXJl"

	r := formRequest("https://example.com/webhook/save", url.Values{"Body": {"hi"}})
	r.Header.Set(DefaultHeader, token)
	serve(g, r)

	out := logs.String()
	assert.Contains(t, out, "Twilio signature rejected")
	assert.Contains(t, out, string(ReasonInvalid))
	assert.Contains(t, out, logging.Redact(token))
	assert.NotContains(t, out, token)
	assert.NotContains(t, out, testSecret)
}

func TestGate_EvaluateIsRepeatable(t *testing.T) {
	g, _ := newTestGate(t, GateConfig{Secret: testSecret})
	target := "https://example.com/webhook/save"
	r := formRequest(target, url.Values{"Body": {"hello"}})
	r.Header.Set(DefaultHeader, Compute(testSecret, target, map[string]string{"Body": "hello"}))

	for i := 0; i < 3; i++ {
		d, err := g.Evaluate(r)
		require.NoError(t, err)
		assert.True(t, d.Accepted)
		assert.Equal(t, ReasonNone, d.Reason)
	}
}

func TestSigningParams(t *testing.T) {
	body := []byte("From=%2B1555&Body=hello&Body=again&Signature=abc")

	assert.Equal(t,
		map[string]string{"From": "+1555", "Body": "hello"},
		SigningParams(formType, body, "Signature"))
	assert.Empty(t, SigningParams(jsonType, []byte(`{"Body":"hello"}`), ""))
	assert.Empty(t, SigningParams(formType, nil, ""))
	assert.Equal(t, map[string]string{"Body": "hello"}, SigningParams("", []byte("Body=hello"), ""))
	assert.Equal(t, map[string]string{"Body": "hello"}, SigningParams("text/plain", []byte("Body=hello"), ""))
}

func TestGate_UndeclaredFormBodyIsSigned(t *testing.T) {
	target := "https://example.com/webhook/twilio/save/order"
	urlOnly := Compute(testSecret, target, nil)
	full := Compute(testSecret, target, map[string]string{"orderType": "winch_out", "client_information": "anything"})

	tests := []struct {
		name        string
		contentType string
		token       string
		wantStatus  int
	}{
		{"no content type, url-only signature", "", urlOnly, http.StatusUnauthorized},
		{"text/plain, url-only signature", "text/plain", urlOnly, http.StatusUnauthorized},
		{"no content type, signed fields", "", full, http.StatusOK},
		{"text/plain, signed fields", "text/plain", full, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGate(t, GateConfig{Secret: testSecret})
			body := "orderType=winch_out&client_information=anything&signature=" + url.QueryEscape(tt.token)
			r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			w, rec := serve(g, r)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, rec.called)
		})
	}
}
