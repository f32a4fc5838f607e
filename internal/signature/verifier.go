package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"sort"
	"strings"
)

// CanonicalInput builds the string Twilio signs: the URL followed by each
// parameter name and value, names sorted in byte order, no separators.
func CanonicalInput(rawURL string, params map[string]string) string {
	names := make([]string, 0, len(params))
	size := len(rawURL)
	for name, value := range params {
		names = append(names, name)
		size += len(name) + len(value)
	}
	sort.Strings(names)

	var b strings.Builder
	b.Grow(size)
	b.WriteString(rawURL)
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(params[name])
	}
	return b.String()
}

// Compute returns the Base64 HMAC-SHA1 signature of the canonical input.
func Compute(secret, rawURL string, params map[string]string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(CanonicalInput(rawURL, params)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verifier checks tokens against a fixed shared secret. It holds no mutable
// state and is safe for concurrent use.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Configured reports whether a secret is present.
func (v *Verifier) Configured() bool {
	return v.secret != ""
}

// Expected returns the signature a genuine request would carry.
func (v *Verifier) Expected(rawURL string, params map[string]string) (string, error) {
	if !v.Configured() {
		return "", ErrMisconfiguredSecret
	}
	return Compute(v.secret, rawURL, params), nil
}

// Verify compares token with the expected signature in constant time.
// Comparison is byte-exact and case-sensitive.
func (v *Verifier) Verify(rawURL string, params map[string]string, token string) error {
	expected, err := v.Expected(rawURL, params)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}
