package handler

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"bookstore/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_ExportOrders_CSV(t *testing.T) {
	logger := zerolog.Nop()
	admin := model.Requester{ID: uuid.New(), Role: model.RoleAdmin}

	created := time.Date(2026, time.April, 2, 8, 15, 30, 0, time.UTC)
	orderID := uuid.New()
	summaries := []model.OrderSummary{
		{
			OrderID:     orderID,
			OrderNumber: "ORD-20260402-" + orderID.String()[:8],
			Username:    "reader",
			Email:       "reader@example.com",
			TotalAmount: decimal.RequireFromString("130.00"),
			Status:      model.StatusCompleted,
			CreatedAt:   created,
			ItemCount:   2,
		},
	}

	mockOrders := new(MockOrderService)
	h := NewAdminHandler(mockOrders, new(MockRevenueService), logger)

	mockOrders.On("ExportOrders", mock.Anything, admin, model.OrderFilter{}).Return(summaries, nil)

	router := newTestRouter(func(r chi.Router) {
		r.Get("/admin/orders/export", h.ExportOrders)
	})

	w := doRequest(t, router, http.MethodGet, "/admin/orders/export", "", admin)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"Order ID", "Order Number", "Username", "Email", "Total Amount", "Status", "Created At", "Item Count"}, records[0])
	assert.Equal(t, orderID.String(), records[1][0])
	assert.Equal(t, "130.00", records[1][4])
	assert.Equal(t, "COMPLETED", records[1][5])
	assert.Equal(t, "2026-04-02 08:15:30", records[1][6])
	assert.Equal(t, "2", records[1][7])
}

func TestAdminHandler_ListOrders_Filters(t *testing.T) {
	logger := zerolog.Nop()
	admin := model.Requester{ID: uuid.New(), Role: model.RoleAdmin}

	mockOrders := new(MockOrderService)
	h := NewAdminHandler(mockOrders, new(MockRevenueService), logger)

	mockOrders.On("ListOrders", mock.Anything, admin, mock.MatchedBy(func(f model.OrderFilter) bool {
		if f.Status == nil || *f.Status != model.StatusPending {
			return false
		}
		if f.From == nil || !f.From.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
			return false
		}
		// toDate is pushed to the end of its day to keep the range inclusive.
		return f.To != nil && f.To.After(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC))
	}), 0, 10).Return(model.NewPage([]model.OrderSummary{}, 0, 0, 10), nil)

	router := newTestRouter(func(r chi.Router) {
		r.Get("/admin/orders", h.ListOrders)
	})

	w := doRequest(t, router, http.MethodGet, "/admin/orders?status=pending&fromDate=2026-01-01&toDate=2026-01-31", "", admin)

	assert.Equal(t, http.StatusOK, w.Code)
	mockOrders.AssertExpectations(t)
}

func TestAdminHandler_ListOrders_InvalidStatus(t *testing.T) {
	logger := zerolog.Nop()
	admin := model.Requester{ID: uuid.New(), Role: model.RoleAdmin}

	mockOrders := new(MockOrderService)
	h := NewAdminHandler(mockOrders, new(MockRevenueService), logger)

	router := newTestRouter(func(r chi.Router) {
		r.Get("/admin/orders", h.ListOrders)
	})

	w := doRequest(t, router, http.MethodGet, "/admin/orders?status=SHIPPED", "", admin)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockOrders.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminHandler_UpdateStatus(t *testing.T) {
	logger := zerolog.Nop()
	admin := model.Requester{ID: uuid.New(), Role: model.RoleAdmin}
	orderID := uuid.New()

	invoice := &model.Invoice{
		ID:        orderID,
		Status:    model.StatusCancelled,
		CreatedAt: time.Now(),
	}

	mockOrders := new(MockOrderService)
	h := NewAdminHandler(mockOrders, new(MockRevenueService), logger)

	mockOrders.On("UpdateStatus", mock.Anything, admin, orderID, "CANCELLED").Return(invoice, nil)

	router := newTestRouter(func(r chi.Router) {
		r.Put("/admin/orders/{orderId}/status", h.UpdateStatus)
	})

	w := doRequest(t, router, http.MethodPut, "/admin/orders/"+orderID.String()+"/status", `{"status":"CANCELLED"}`, admin)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp model.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusCancelled, resp.Status)
}

func TestAdminHandler_UpdateStatus_MissingStatus(t *testing.T) {
	logger := zerolog.Nop()
	admin := model.Requester{ID: uuid.New(), Role: model.RoleAdmin}

	mockOrders := new(MockOrderService)
	h := NewAdminHandler(mockOrders, new(MockRevenueService), logger)

	router := newTestRouter(func(r chi.Router) {
		r.Put("/admin/orders/{orderId}/status", h.UpdateStatus)
	})

	w := doRequest(t, router, http.MethodPut, "/admin/orders/"+uuid.NewString()+"/status", `{}`, admin)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockOrders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminHandler_MonthlyRevenue(t *testing.T) {
	logger := zerolog.Nop()
	admin := model.Requester{ID: uuid.New(), Role: model.RoleAdmin}

	report := &model.RevenueReport{
		Year:         2025,
		Months:       make([]model.MonthlyRevenue, 12),
		TotalRevenue: decimal.RequireFromString("200.00"),
	}

	mockRevenue := new(MockRevenueService)
	h := NewAdminHandler(new(MockOrderService), mockRevenue, logger)

	mockRevenue.On("MonthlyRevenue", mock.Anything, 2025).Return(report, nil)

	router := newTestRouter(func(r chi.Router) {
		r.Get("/admin/revenue/monthly", h.MonthlyRevenue)
	})

	w := doRequest(t, router, http.MethodGet, "/admin/revenue/monthly?year=2025", "", admin)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp model.RevenueReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2025, resp.Year)
	assert.Len(t, resp.Months, 12)
}

func TestAdminHandler_MonthlyRevenue_BadYear(t *testing.T) {
	logger := zerolog.Nop()
	admin := model.Requester{ID: uuid.New(), Role: model.RoleAdmin}

	mockRevenue := new(MockRevenueService)
	h := NewAdminHandler(new(MockOrderService), mockRevenue, logger)

	router := newTestRouter(func(r chi.Router) {
		r.Get("/admin/revenue/monthly", h.MonthlyRevenue)
	})

	w := doRequest(t, router, http.MethodGet, "/admin/revenue/monthly?year=abc", "", admin)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRevenue.AssertNotCalled(t, "MonthlyRevenue", mock.Anything, mock.Anything)
}
