package orders

import (
	"encoding/json"
	"mime"
	"net/url"
	"strings"

	"twilio-gateway/internal/common/errors"
	"twilio-gateway/internal/common/validation"
)

// OrderRequest is the payload a Twilio flow posts to save an order.
type OrderRequest struct {
	ClientInformation string `json:"client_information" validate:"max=2000"`
	PhoneNumber       string `json:"phoneNumber" validate:"omitempty,phone"`
	OrderType         string `json:"orderType" validate:"max=100"`
}

// DecodeOrderRequest reads an order from a JSON or form body. Field names
// match case-insensitively in both encodings.
func DecodeOrderRequest(contentType string, body []byte) (*OrderRequest, error) {
	var req OrderRequest

	mt, _, _ := mime.ParseMediaType(contentType)
	switch {
	case mt == "application/json" || strings.HasSuffix(mt, "+json"):
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return nil, errors.ValidationError("request body is not valid JSON").WithCause(err)
			}
		}
	default:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, errors.ValidationError("request body is not a valid form").WithCause(err)
		}
		req.ClientInformation = formValue(values, "client_information")
		req.PhoneNumber = formValue(values, "phoneNumber")
		req.OrderType = formValue(values, "orderType")
	}

	req.ClientInformation = strings.TrimSpace(req.ClientInformation)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.OrderType = strings.TrimSpace(req.OrderType)

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func formValue(values url.Values, name string) string {
	if v, ok := values[name]; ok && len(v) > 0 {
		return v[0]
	}
	for k, v := range values {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
