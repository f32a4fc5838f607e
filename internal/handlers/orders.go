package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"twilio-gateway/internal/common/pagination"
	"twilio-gateway/internal/storage"
)

// OrderList is one page of orders.
type OrderList struct {
	Orders     []*storage.Order `json:"orders"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

// ListOrders pages through saved orders, newest first.
// @Summary List orders
// @Tags orders
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Page size (max 200)" default(50)
// @Param offset query int false "Offset"
// @Success 200 {object} OrderList
// @Router /orders [get]
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.ParseParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	list, total, err := h.orders.ListOrders(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderList{
		Orders:     list,
		Total:      total,
		TotalPages: pagination.TotalPages(total, p.Limit),
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
}

// GetOrder returns a single order.
// @Summary Get order
// @Tags orders
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Order id"
// @Success 200 {object} storage.Order
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
