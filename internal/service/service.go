package service

import (
	"context"

	"bookstore/internal/model"

	"github.com/google/uuid"
)

// CartService defines operations on the per-user shopping cart.
type CartService interface {
	// GetCart returns the user's cart enriched with live catalogue prices.
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error)

	// AddItem adds a book to the cart; an existing line has its quantity
	// incremented.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.CartRequest) (*model.CartView, error)

	// UpdateItem sets a line's quantity; a quantity of zero or less removes
	// the line.
	UpdateItem(ctx context.Context, userID uuid.UUID, req *model.CartRequest) (*model.CartView, error)

	// RemoveItem removes a book from the cart.
	RemoveItem(ctx context.Context, userID, bookID uuid.UUID) (*model.CartView, error)

	// Clear empties the cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CheckoutService converts a cart into an invoice.
type CheckoutService interface {
	// Checkout atomically creates an invoice plus items from the user's cart
	// and empties the cart.
	Checkout(ctx context.Context, userID uuid.UUID) (*model.CheckoutResult, error)
}

// OrderService governs order status transitions and role-scoped querying.
type OrderService interface {
	// MarkReceived confirms receipt of an order, transitioning it from
	// PENDING to COMPLETED. Only the owner may confirm.
	MarkReceived(ctx context.Context, requester model.Requester, orderID uuid.UUID) error

	// UpdateStatus sets an order's status directly, bypassing transition
	// guards. Administrators only.
	UpdateStatus(ctx context.Context, requester model.Requester, orderID uuid.UUID, status string) (*model.Invoice, error)

	// ListOrders retrieves a filtered, paginated order listing. Ordinary
	// users see only their own orders.
	ListOrders(ctx context.Context, requester model.Requester, filter model.OrderFilter, page, limit int) (model.Page[model.OrderSummary], error)

	// GetOrderDetail retrieves one order with its catalogue-enriched items.
	GetOrderDetail(ctx context.Context, requester model.Requester, orderID uuid.UUID) (*model.OrderDetail, error)

	// ExportOrders returns the filtered set unpaginated, flattened for
	// serialization. Administrators only.
	ExportOrders(ctx context.Context, requester model.Requester, filter model.OrderFilter) ([]model.OrderSummary, error)
}

// RevenueService aggregates completed-order revenue.
type RevenueService interface {
	// MonthlyRevenue computes per-month completed-order revenue for a
	// calendar year. A year of 0 means the current year.
	MonthlyRevenue(ctx context.Context, year int) (*model.RevenueReport, error)
}

// BookService defines operations for catalogue management.
type BookService interface {
	GetAll(ctx context.Context, page, limit int) (model.Page[model.Book], error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	Search(ctx context.Context, query string, page, limit int) (model.Page[model.Book], error)
	GetByCategory(ctx context.Context, categoryID uuid.UUID, page, limit int) (model.Page[model.Book], error)
	Create(ctx context.Context, req *model.BookRequest) (*model.Book, error)
	Update(ctx context.Context, id uuid.UUID, req *model.BookRequest) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryService defines operations for category management.
type CategoryService interface {
	GetAll(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, req *model.CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
