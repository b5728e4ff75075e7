package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an invoice.
type OrderStatus string

// remember to add new statuses to the validOrderStatuses map
const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	StatusPending:   {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ToOrderStatus parses a status string, case-insensitively.
func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(s))
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}
	return "", NewInvalidRequest(ErrCodeInvalidStatus, fmt.Sprintf("Invalid order status: %s", s))
}

// Invoice is the immutable record of a checked-out cart. The total and the
// denormalized user snapshot are frozen at creation; only the status changes
// afterwards.
type Invoice struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"userId" db:"user_id"`
	Username    string          `json:"username" db:"username"`
	Email       string          `json:"email" db:"email"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status      OrderStatus     `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// OrderNumber derives the human-readable order number
// ORD-YYYYMMDD-<first 8 chars of id> from the invoice identity.
func (i Invoice) OrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", i.CreatedAt.Format("20060102"), i.ID.String()[:8])
}

// InvoiceItem is one purchased book within an invoice, its price frozen at
// the moment of checkout.
type InvoiceItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	InvoiceID uuid.UUID       `json:"-" db:"invoice_id"`
	BookID    uuid.UUID       `json:"bookId" db:"book_id"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// Subtotal is price times quantity; derived, never stored.
func (it InvoiceItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// InvoiceWithCount pairs an invoice with its item count for listings.
type InvoiceWithCount struct {
	Invoice
	ItemCount int `json:"itemCount" db:"item_count"`
}

// OrderFilter narrows invoice listings. AND semantics across fields; a nil
// field means no constraint. The date range is inclusive on both ends.
type OrderFilter struct {
	OwnerID *uuid.UUID
	Status  *OrderStatus
	From    *time.Time
	To      *time.Time
}

// Validate rejects inverted date ranges.
func (f OrderFilter) Validate() error {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return NewInvalidRequest(ErrCodeMissingField, "toDate is before fromDate")
	}
	return nil
}

// Page is a paginated result set.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPage assembles a page, computing the page count from total and limit.
func NewPage[T any](items []T, total, page, limit int) Page[T] {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// OrderSummary is the flattened listing projection of an invoice.
type OrderSummary struct {
	OrderID     uuid.UUID       `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	ItemCount   int             `json:"itemCount"`
}

// OrderItemDetail is an invoice item enriched with catalogue display fields.
// Title and author fall back to "Unknown" when the book has been deleted.
type OrderItemDetail struct {
	BookID     uuid.UUID       `json:"bookId"`
	BookTitle  string          `json:"bookTitle"`
	BookAuthor string          `json:"bookAuthor"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// OrderDetail is a single order with its enriched line items.
type OrderDetail struct {
	OrderID     uuid.UUID         `json:"orderId"`
	OrderNumber string            `json:"orderNumber"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	Status      OrderStatus       `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	Items       []OrderItemDetail `json:"items"`
}

// CheckoutLine is the per-line breakdown returned by checkout.
type CheckoutLine struct {
	BookID    uuid.UUID       `json:"bookId"`
	BookTitle string          `json:"bookTitle"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CheckoutSummary aggregates a checkout: distinct lines, units, total.
type CheckoutSummary struct {
	TotalItems    int             `json:"totalItems"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// CheckoutResult is the full response of a successful checkout.
type CheckoutResult struct {
	Invoice Invoice         `json:"invoice"`
	Items   []CheckoutLine  `json:"items"`
	Summary CheckoutSummary `json:"summary"`
}

// MonthlyRevenue is one month's completed-order revenue.
type MonthlyRevenue struct {
	Month      int             `json:"month"`
	MonthName  string          `json:"monthName"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"orderCount"`
}

// RevenueReport is the monthly revenue breakdown for one calendar year.
// TotalRevenue equals the exact sum of the twelve monthly figures.
type RevenueReport struct {
	Year         int              `json:"year"`
	Months       []MonthlyRevenue `json:"monthlyRevenues"`
	TotalRevenue decimal.Decimal  `json:"totalRevenue"`
}
