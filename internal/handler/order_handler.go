package handler

import (
	"net/http"
	"strconv"
	"time"

	"bookstore/internal/middleware"
	"bookstore/internal/model"
	"bookstore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order-related HTTP requests.
type OrderHandler struct {
	checkout service.CheckoutService
	orders   service.OrderService
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(checkout service.CheckoutService, orders service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		orders:   orders,
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

// Checkout handles POST /api/checkout requests.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	result, err := h.checkout.Checkout(r.Context(), requester.ID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// History handles GET /api/orders/history requests.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	page, limit := parsePagination(r)
	result, err := h.orders.ListOrders(r.Context(), requester, model.OrderFilter{}, page, limit)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, model.ErrCodeMissingField, "invalid order ID format")
		return
	}

	detail, err := h.orders.GetOrderDetail(r.Context(), requester, orderID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// MarkReceived handles PUT /api/orders/{id}/received requests.
func (h *OrderHandler) MarkReceived(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, model.ErrCodeMissingField, "invalid order ID format")
		return
	}

	if err := h.orders.MarkReceived(r.Context(), requester, orderID); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Order receipt confirmed"})
}

// ListInvoices handles GET /api/invoices requests, scoped to the caller.
func (h *OrderHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	// Invoices are always self-scoped here, even for admins; the admin
	// surface lives under /admin/orders.
	scoped := model.Requester{ID: requester.ID, Role: model.RoleUser}

	page, limit := parsePagination(r)
	result, err := h.orders.ListOrders(r.Context(), scoped, model.OrderFilter{}, page, limit)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListAllInvoices handles GET /api/invoices/all requests. Admin only,
// enforced by the router.
func (h *OrderHandler) ListAllInvoices(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	page, limit := parsePagination(r)
	result, err := h.orders.ListOrders(r.Context(), requester, model.OrderFilter{}, page, limit)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// parsePagination reads page and limit query parameters, falling back to
// the first page of ten on absent or malformed values.
func parsePagination(r *http.Request) (int, int) {
	page := 0
	limit := 10

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	return page, limit
}

// parseOrderFilter reads status, fromDate and toDate query parameters.
// Dates use the yyyy-mm-dd form; toDate is extended to the end of its day
// so the range stays inclusive.
func parseOrderFilter(r *http.Request) (model.OrderFilter, error) {
	var filter model.OrderFilter

	if v := r.URL.Query().Get("status"); v != "" {
		status, err := model.ToOrderStatus(v)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if v := r.URL.Query().Get("fromDate"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, model.NewInvalidRequest(model.ErrCodeMissingField, "invalid fromDate, expected yyyy-mm-dd")
		}
		filter.From = &from
	}

	if v := r.URL.Query().Get("toDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, model.NewInvalidRequest(model.ErrCodeMissingField, "invalid toDate, expected yyyy-mm-dd")
		}
		to := parsed.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}

	return filter, nil
}
