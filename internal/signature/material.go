package signature

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// DefaultHeader is the header Twilio sends the signature in.
const DefaultHeader = "X-Twilio-Signature"

// Origin records where signing material was found.
type Origin string

const (
	OriginNone     Origin = ""
	OriginHeader   Origin = "header"
	OriginBodyJSON Origin = "body-json"
	OriginBodyForm Origin = "body-form"
)

// Material is the outcome of an extraction. The zero value means nothing was found.
type Material struct {
	Token  string
	Origin Origin
	// Field is the body field the token was read from, spelled as in the body.
	Field string
}

// Found reports whether a token was extracted.
func (m Material) Found() bool {
	return m.Origin != OriginNone
}

// Extractor locates the signing token in a request.
type Extractor struct {
	header     string
	candidates []string
}

// NewExtractor returns an extractor reading the given header first. An empty
// header selects DefaultHeader.
func NewExtractor(header string) *Extractor {
	header = strings.TrimSpace(header)
	if header == "" {
		header = DefaultHeader
	}
	return &Extractor{
		header:     header,
		candidates: []string{"signature", "key", header},
	}
}

// Header returns the header name the extractor consults.
func (e *Extractor) Header() string {
	return e.header
}

// Extract looks for the token in the header, then a JSON body, then a form
// body. It never modifies its inputs.
func (e *Extractor) Extract(h http.Header, contentType string, body []byte) Material {
	if v := strings.TrimSpace(h.Get(e.header)); v != "" {
		return Material{Token: v, Origin: OriginHeader}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return Material{}
	}

	if isJSON(contentType) {
		if field, token, ok := e.scanJSON(body); ok {
			return Material{Token: token, Origin: OriginBodyJSON, Field: field}
		}
	}

	if field, token, ok := e.scanForm(body); ok {
		return Material{Token: token, Origin: OriginBodyForm, Field: field}
	}
	return Material{}
}

// FromRequest buffers r's body, restores it and extracts from the result.
func (e *Extractor) FromRequest(r *http.Request, limit int64) (Material, []byte, error) {
	body, err := PreserveRequestBody(r, limit)
	if err != nil {
		return Material{}, nil, err
	}
	return e.Extract(r.Header, r.Header.Get("Content-Type"), body), body, nil
}

func (e *Extractor) matches(name string) bool {
	name = strings.TrimSpace(name)
	for _, c := range e.candidates {
		if strings.EqualFold(name, c) {
			return true
		}
	}
	return false
}

// scanJSON walks the top-level object in document order. Non-object or
// malformed documents never match.
func (e *Extractor) scanJSON(body []byte) (field, token string, ok bool) {
	if !json.Valid(body) {
		return "", "", false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return "", "", false
	}
	if d, isDelim := tok.(json.Delim); !isDelim || d != '{' {
		return "", "", false
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return "", "", false
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return "", "", false
		}
		if !e.matches(key) {
			continue
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil || strings.TrimSpace(value) == "" {
			continue
		}
		return key, value, true
	}
	return "", "", false
}

// scanForm walks url-encoded pairs in order, skipping pairs that fail to decode.
func (e *Extractor) scanForm(body []byte) (field, token string, ok bool) {
	for _, pair := range strings.Split(string(body), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || !e.matches(key) {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil || strings.TrimSpace(value) == "" {
			continue
		}
		return key, value, true
	}
	return "", "", false
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
