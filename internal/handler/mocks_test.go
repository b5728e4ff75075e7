package handler

import (
	"context"

	"bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.CartRequest) (*model.CartView, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *model.CartRequest) (*model.CartView, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, bookID uuid.UUID) (*model.CartView, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, userID uuid.UUID) (*model.CheckoutResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResult), args.Error(1)
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) MarkReceived(ctx context.Context, requester model.Requester, orderID uuid.UUID) error {
	args := m.Called(ctx, requester, orderID)
	return args.Error(0)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, requester model.Requester, orderID uuid.UUID, status string) (*model.Invoice, error) {
	args := m.Called(ctx, requester, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, requester model.Requester, filter model.OrderFilter, page, limit int) (model.Page[model.OrderSummary], error) {
	args := m.Called(ctx, requester, filter, page, limit)
	return args.Get(0).(model.Page[model.OrderSummary]), args.Error(1)
}

func (m *MockOrderService) GetOrderDetail(ctx context.Context, requester model.Requester, orderID uuid.UUID) (*model.OrderDetail, error) {
	args := m.Called(ctx, requester, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderDetail), args.Error(1)
}

func (m *MockOrderService) ExportOrders(ctx context.Context, requester model.Requester, filter model.OrderFilter) ([]model.OrderSummary, error) {
	args := m.Called(ctx, requester, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderSummary), args.Error(1)
}

// MockRevenueService is a mock implementation of service.RevenueService.
type MockRevenueService struct {
	mock.Mock
}

func (m *MockRevenueService) MonthlyRevenue(ctx context.Context, year int) (*model.RevenueReport, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RevenueReport), args.Error(1)
}
