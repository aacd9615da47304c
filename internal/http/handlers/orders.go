package handlers

import (
	"net/http"
	"strings"

	"near2door-tracker/internal/auth"
	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/logx"
)

// OrdersHandler serves the order list views and status changes.
type OrdersHandler struct {
	views    orderViews
	statuses statusService
	logger   logx.Logger
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(logger logx.Logger, views orderViews, statuses statusService) *OrdersHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &OrdersHandler{views: views, statuses: statuses, logger: logger}
}

// List handles GET /orders: the caller's view refreshed from the backend.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	who, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	list, err := h.views.Refresh(r.Context(), who)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ordersToResponse(list))
}

// Create handles POST /orders.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	who, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createOrderRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	o, err := h.views.Create(r.Context(), who, createRequestToDomain(req))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, orderToResponse(o))
}

// UpdateStatus handles PUT /orders/{orderID}/status.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	who, orderID, ok := caller(h.logger, w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	to := domain.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	o, err := h.statuses.Transition(r.Context(), who, orderID, to)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o))
}

// Actions handles GET /orders/{orderID}/actions.
func (h *OrdersHandler) Actions(w http.ResponseWriter, r *http.Request) {
	who, orderID, ok := caller(h.logger, w, r)
	if !ok {
		return
	}
	o, next, err := h.statuses.AllowedActions(r.Context(), who, orderID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, actionsResponse{
		OrderID: o.ID,
		Status:  string(o.Status),
		Actions: statusesToStrings(next),
	})
}
