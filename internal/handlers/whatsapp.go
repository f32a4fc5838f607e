package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"twilio-gateway/internal/common/errors"
	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/common/validation"
)

const defaultRestartReason = "Manual restart from API"

// RestartRequest is the optional body of the restart endpoint.
type RestartRequest struct {
	Force  bool    `json:"force"`
	Reason *string `json:"reason"`
}

// TestMessageRequest is the body of the test message endpoint.
type TestMessageRequest struct {
	Message string `json:"message" validate:"notblank,max=4096"`
}

// IsConnectedResponse never carries an error; failures read as disconnected.
type IsConnectedResponse struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// MessageStatus returns the delivery status of a sent message.
// @Summary Message status
// @Tags whatsapp
// @Produce json
// @Security ApiKeyAuth
// @Param messageId path string true "Message id"
// @Success 200 {object} whatsapp.MessageStatusResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /whatsapp/message-status/{messageId} [get]
func (h *Handlers) MessageStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["messageId"])
	if id == "" {
		writeError(w, errors.ValidationError("message id is required"))
		return
	}

	resp, err := h.whatsapp.GetMessageStatus(r.Context(), id)
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to get message status", err, logging.Field{Key: "message_id", Value: id})
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ConnectionStatus returns the current WhatsApp session state.
// @Summary Connection status
// @Tags whatsapp
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} whatsapp.ConnectionStatusResponse
// @Failure 502 {object} ErrorResponse
// @Router /whatsapp/connection-status [get]
func (h *Handlers) ConnectionStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.whatsapp.GetConnectionStatus(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to get connection status", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// IsConnected reports whether WhatsApp is connected. It always returns 200.
// @Summary Is connected
// @Tags whatsapp
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} IsConnectedResponse
// @Router /whatsapp/is-connected [get]
func (h *Handlers) IsConnected(w http.ResponseWriter, r *http.Request) {
	connected, message := h.whatsapp.IsConnected(r.Context())
	writeJSON(w, http.StatusOK, IsConnectedResponse{
		Connected: connected,
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
}

// RestartConnection asks the messaging service to reconnect.
// @Summary Restart connection
// @Tags whatsapp
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body RestartRequest false "Restart options"
// @Success 200 {object} whatsapp.RestartConnectionResponse
// @Failure 400 {object} map[string]string
// @Router /whatsapp/restart-connection [post]
func (h *Handlers) RestartConnection(w http.ResponseWriter, r *http.Request) {
	var req RestartRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	reason := defaultRestartReason
	if req.Reason != nil {
		reason = *req.Reason
	}

	resp, err := h.whatsapp.RestartConnection(r.Context(), req.Force, reason)
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to restart connection", err)
		writeError(w, err)
		return
	}
	if !resp.Success {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": resp.Message})
		return
	}

	h.logger.WithContext(r.Context()).Info("WhatsApp connection restart requested",
		logging.Field{Key: "force", Value: req.Force},
		logging.Field{Key: "reason", Value: reason},
		logging.Field{Key: "new_state", Value: resp.NewState.String()},
	)
	writeJSON(w, http.StatusOK, resp)
}

// SendTestMessage sends a message to the configured operator number.
// @Summary Send test message
// @Tags whatsapp
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body TestMessageRequest true "Message"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /whatsapp/test/message [post]
func (h *Handlers) SendTestMessage(w http.ResponseWriter, r *http.Request) {
	var req TestMessageRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.orders.SendTestMessage(r.Context(), req.Message)
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to send test message", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "Test message sent successfully",
		"message_id": id,
	})
}

// decodeOptionalJSON decodes the body into dst. An empty body leaves dst untouched.
func decodeOptionalJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return errors.ValidationError("failed to read request body").WithCause(err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errors.ValidationError("request body is not valid JSON").WithCause(err)
	}
	return nil
}
