package handlers

import (
	"encoding/json"
	"net/http"

	"twilio-gateway/internal/common/errors"
)

// TwilioResponse is the body returned to Twilio flows.
type TwilioResponse struct {
	Status bool   `json:"status"`
	Msj    string `json:"msj"`
}

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code. Internal details are not exposed for
// 5xx responses other than upstream failures.
func writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	resp := ErrorResponse{Error: string(errors.GetType(err)), Message: "internal server error"}

	if appErr, ok := errors.As(err); ok {
		if appErr.Code != "" {
			resp.Error = appErr.Code
		}
		if status < 500 || appErr.Type == errors.ErrTypeConnection || appErr.Type == errors.ErrTypeTimeout {
			resp.Message = appErr.Message
		}
		if appErr.Code == "circuit_open" {
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}
