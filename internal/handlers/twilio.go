package handlers

import (
	"io"
	"net/http"

	"twilio-gateway/internal/common/errors"
	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/dedupe"
	"twilio-gateway/internal/orders"
	"twilio-gateway/internal/signature"
)

const webhookWorking = "Twilio Webhook is working"

// TwilioStatus reports that the webhook controller is up.
// @Summary Webhook status
// @Tags twilio
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} TwilioResponse
// @Router /webhook/twilio/estado/test [get]
func (h *Handlers) TwilioStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TwilioResponse{Status: true, Msj: webhookWorking})
}

// TwilioTest lets a Twilio flow check that its signature is accepted.
// @Summary Signed webhook test
// @Tags twilio
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param X-Twilio-Signature header string false "Twilio request signature"
// @Success 200 {object} TwilioResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /webhook/twilio/test [post]
func (h *Handlers) TwilioTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TwilioResponse{Status: true, Msj: webhookWorking})
}

// SaveOrder records an order from a Twilio flow and notifies the operator.
// @Summary Save order
// @Tags twilio
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param X-Twilio-Signature header string false "Twilio request signature"
// @Param order body orders.OrderRequest true "Order"
// @Success 200 {object} TwilioResponse
// @Failure 400 {object} TwilioResponse
// @Failure 401 {object} ErrorResponse
// @Router /webhook/twilio/save/order [post]
func (h *Handlers) SaveOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.WithContext(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, TwilioResponse{Status: false, Msj: "Error saving order"})
		return
	}

	req, err := orders.DecodeOrderRequest(r.Header.Get("Content-Type"), body)
	if err != nil {
		log.Warn("Rejected order payload", logging.Err(err))
		writeJSON(w, http.StatusBadRequest, TwilioResponse{Status: false, Msj: invalidOrderMessage(err)})
		return
	}

	var key string
	if h.dedupe != nil {
		material, _ := signature.MaterialFromContext(ctx)
		key = dedupe.Key(r, material.Token, body)
		if !h.dedupe.Reserve(ctx, key) {
			log.Info("Duplicate order delivery ignored")
			writeJSON(w, http.StatusOK, TwilioResponse{Status: true, Msj: "Order saved successfully"})
			return
		}
	}

	if _, err := h.orders.PlaceOrder(ctx, req, key); err != nil {
		if h.dedupe != nil {
			h.dedupe.Release(ctx, key)
		}
		writeJSON(w, http.StatusBadRequest, TwilioResponse{Status: false, Msj: "Error saving order"})
		return
	}

	writeJSON(w, http.StatusOK, TwilioResponse{Status: true, Msj: "Order saved successfully"})
}

func invalidOrderMessage(err error) string {
	if appErr, ok := errors.As(err); ok {
		return appErr.Message
	}
	return "Error saving order"
}
