package repository

import (
	"context"
	"time"

	"bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BookRepository defines the interface for catalogue data access.
type BookRepository interface {
	// GetAll retrieves books with pagination, returning the total count.
	GetAll(ctx context.Context, limit, offset int) ([]model.Book, int, error)

	// GetByID retrieves a single book. Returns nil when the book does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// GetByIDs retrieves multiple books by their IDs. Missing IDs are simply
	// absent from the result.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Book, error)

	// Search retrieves books whose title or author matches the query.
	Search(ctx context.Context, query string, limit, offset int) ([]model.Book, int, error)

	// GetByCategory retrieves books in a category with pagination.
	GetByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]model.Book, int, error)

	// Create inserts a new book.
	Create(ctx context.Context, book *model.Book) error

	// Update rewrites a book's mutable fields. Returns false when the book
	// does not exist.
	Update(ctx context.Context, book *model.Book) (bool, error)

	// Delete removes a book. Returns false when the book does not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]model.Category, error)

	// GetByID returns nil when the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	// GetByName returns nil when no category carries the name.
	GetByName(ctx context.Context, name string) (*model.Category, error)

	Create(ctx context.Context, category *model.Category) error

	Update(ctx context.Context, category *model.Category) (bool, error)

	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserRepository defines the interface for identity lookups.
type UserRepository interface {
	// GetByID returns nil when the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// CartRepository defines the interface for cart data access. Every mutation
// persists the cart and refreshes its timestamp.
type CartRepository interface {
	// GetOrCreate fetches the user's cart with its items, creating an empty
	// cart on first access.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// AddItem upserts a line: an existing bookId has its quantity incremented.
	AddItem(ctx context.Context, userID, bookID uuid.UUID, quantity int) error

	// SetItemQuantity updates a line's quantity; quantity <= 0 removes the
	// line. Returns false when the line is not in the cart.
	SetItemQuantity(ctx context.Context, userID, bookID uuid.UUID, quantity int) (bool, error)

	// RemoveItem deletes a line. Removing an absent line is a no-op.
	RemoveItem(ctx context.Context, userID, bookID uuid.UUID) error

	// Clear removes all lines from the user's cart.
	Clear(ctx context.Context, userID uuid.UUID) error

	// GetForUpdate locks the user's cart row within the transaction and
	// returns the cart with its items. Returns nil when the user has no cart.
	// The lock serializes concurrent checkouts for the same user.
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error)

	// ClearTx removes all lines within the provided transaction.
	ClearTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error
}

// OrderRepository defines the interface for invoice data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateInvoice inserts a new invoice within the provided transaction.
	CreateInvoice(ctx context.Context, tx pgx.Tx, invoice *model.Invoice) error

	// CreateItems inserts invoice items within the provided transaction.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.InvoiceItem) error

	// GetInvoice returns nil when the invoice does not exist.
	GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error)

	// GetItems retrieves the items of an invoice.
	GetItems(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceItem, error)

	// List retrieves invoices matching the filter, newest first, with their
	// item counts and the total match count. A limit of 0 disables paging.
	List(ctx context.Context, filter model.OrderFilter, limit, offset int) ([]model.InvoiceWithCount, int, error)

	// UpdateStatusIf performs a compare-and-set status transition. Returns
	// false when the invoice is missing or its status is not `from`.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error)

	// SetStatus unconditionally sets the status. Returns the updated invoice,
	// or nil when it does not exist.
	SetStatus(ctx context.Context, id uuid.UUID, to model.OrderStatus) (*model.Invoice, error)

	// MonthlyRevenue sums completed-invoice totals per month over the
	// half-open interval [from, to).
	MonthlyRevenue(ctx context.Context, from, to time.Time) ([]MonthBucket, error)
}

// MonthBucket is one month's aggregated revenue row.
type MonthBucket struct {
	Month      int
	Revenue    decimal.Decimal
	OrderCount int
}
