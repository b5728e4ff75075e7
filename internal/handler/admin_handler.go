package handler

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
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

var exportHeader = []string{"Order ID", "Order Number", "Username", "Email", "Total Amount", "Status", "Created At", "Item Count"}

// AdminHandler handles administrative order and revenue HTTP requests.
type AdminHandler struct {
	orders  service.OrderService
	revenue service.RevenueService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(orders service.OrderService, revenue service.RevenueService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		orders:  orders,
		revenue: revenue,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// ListOrders handles GET /api/admin/orders requests.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrAdminOnly, h.logger)
		return
	}

	filter, err := parseOrderFilter(r)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	page, limit := parsePagination(r)
	result, err := h.orders.ListOrders(r.Context(), requester, filter, page, limit)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetOrder handles GET /api/admin/orders/{orderId} requests.
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrAdminOnly, h.logger)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
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

// UpdateStatus handles PUT /api/admin/orders/{orderId}/status requests.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrAdminOnly, h.logger)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		writeBadRequest(w, model.ErrCodeMissingField, "invalid order ID format")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}
	if req.Status == "" {
		writeBadRequest(w, model.ErrCodeMissingField, "status is required")
		return
	}

	invoice, err := h.orders.UpdateStatus(r.Context(), requester, orderID, req.Status)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}

// ExportOrders handles GET /api/admin/orders/export requests, streaming the
// filtered order set as CSV.
func (h *AdminHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrAdminOnly, h.logger)
		return
	}

	filter, err := parseOrderFilter(r)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	summaries, err := h.orders.ExportOrders(r.Context(), requester, filter)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	filename := fmt.Sprintf("orders_export_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		h.logger.Error().Err(err).Msg("failed to write export header")
		return
	}

	for _, s := range summaries {
		record := []string{
			s.OrderID.String(),
			s.OrderNumber,
			s.Username,
			s.Email,
			s.TotalAmount.StringFixed(2),
			string(s.Status),
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			strconv.Itoa(s.ItemCount),
		}
		if err := cw.Write(record); err != nil {
			h.logger.Error().Err(err).Msg("failed to write export row")
			return
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error().Err(err).Msg("failed to flush export")
	}
}

// MonthlyRevenue handles GET /api/admin/revenue/monthly requests.
func (h *AdminHandler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	year := 0
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, model.ErrCodeMissingField, "invalid year")
			return
		}
		year = n
	}

	report, err := h.revenue.MonthlyRevenue(r.Context(), year)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
