package signature

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// bodyHashParam is the query parameter Twilio adds when it signs a JSON body.
const bodyHashParam = "bodySHA256"

// RequestURL reconstructs the URL the sender signed. When publicBase is set it
// replaces scheme and host; otherwise forwarding headers are honoured.
func RequestURL(r *http.Request, publicBase string) string {
	if publicBase != "" {
		return strings.TrimRight(publicBase, "/") + r.URL.RequestURI()
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := firstHeaderValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = strings.ToLower(proto)
	}

	host := r.Host
	if fwd := firstHeaderValue(r.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}

	return scheme + "://" + host + r.URL.RequestURI()
}

func firstHeaderValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}

// SigningParams returns the POST parameters covered by the signature. Any
// non-JSON body is read as a form, matching how the extractor and handlers
// read it; the first value of each name is used. exclude names the body field
// the token itself was read from.
func SigningParams(contentType string, body []byte, exclude string) map[string]string {
	params := map[string]string{}
	if isJSON(contentType) || len(body) == 0 {
		return params
	}

	// ParseQuery keeps every pair it could decode even when it reports an error.
	values, _ := url.ParseQuery(string(body))
	for name, vs := range values {
		if name == exclude || len(vs) == 0 {
			continue
		}
		params[name] = vs[0]
	}
	return params
}

// checkBodyHash validates the bodySHA256 query parameter against the raw body.
// Requests without the parameter pass.
func checkBodyHash(r *http.Request, body []byte) error {
	want := r.URL.Query().Get(bodyHashParam)
	if want == "" {
		return nil
	}
	sum := sha256.Sum256(body)
	got := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(strings.ToLower(want)), []byte(got)) != 1 {
		return fmt.Errorf("%w: body hash does not match %s", ErrInvalidSignature, bodyHashParam)
	}
	return nil
}
