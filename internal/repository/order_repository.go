package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateInvoice inserts a new invoice within the provided transaction.
func (r *orderRepository) CreateInvoice(ctx context.Context, tx pgx.Tx, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, username, email, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		invoice.ID, invoice.UserID, invoice.Username, invoice.Email,
		invoice.TotalAmount, invoice.Status, invoice.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("invoice_id", invoice.ID.String()).
			Msg("failed to create invoice")
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	r.logger.Debug().
		Str("invoice_id", invoice.ID.String()).
		Msg("invoice created successfully")

	return nil
}

// CreateItems inserts invoice items within the provided transaction.
func (r *orderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO items (id, invoice_id, book_id, price, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.InvoiceID, item.BookID, item.Price, item.Quantity, item.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("invoice_id", items[i].InvoiceID.String()).
				Str("book_id", items[i].BookID.String()).
				Msg("failed to create invoice item")
			return fmt.Errorf("failed to create invoice item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("invoice items created successfully")

	return nil
}

const invoiceColumns = "id, user_id, username, email, total_amount, status, created_at"

func scanInvoice(row pgx.Row) (model.Invoice, error) {
	var inv model.Invoice
	err := row.Scan(&inv.ID, &inv.UserID, &inv.Username, &inv.Email,
		&inv.TotalAmount, &inv.Status, &inv.CreatedAt)
	return inv, err
}

// GetInvoice retrieves an invoice by its ID.
func (r *orderRepository) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1`, invoiceColumns)

	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("invoice_id", id.String()).Msg("invoice not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to query invoice")
		return nil, fmt.Errorf("failed to query invoice: %w", err)
	}

	return &inv, nil
}

// GetItems retrieves the items of an invoice.
func (r *orderRepository) GetItems(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, book_id, price, quantity, created_at
		FROM items
		WHERE invoice_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		r.logger.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("failed to query invoice items")
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []model.InvoiceItem
	for rows.Next() {
		var item model.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.BookID, &item.Price, &item.Quantity, &item.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan invoice item row")
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating invoice item rows")
		return nil, fmt.Errorf("error iterating invoice items: %w", err)
	}

	return items, nil
}

// buildFilter renders the filter into a WHERE clause with positional args.
func buildFilter(filter model.OrderFilter) (string, []any) {
	var clauses []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OwnerID != nil {
		clauses = append(clauses, "user_id = "+arg(*filter.OwnerID))
	}
	if filter.Status != nil {
		clauses = append(clauses, "status = "+arg(*filter.Status))
	}
	if filter.From != nil {
		clauses = append(clauses, "created_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		clauses = append(clauses, "created_at <= "+arg(*filter.To))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// List retrieves invoices matching the filter, newest first, with item
// counts and the total match count. A limit of 0 disables paging (export).
func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter, limit, offset int) ([]model.InvoiceWithCount, int, error) {
	where, args := buildFilter(filter)

	query := fmt.Sprintf(`
		SELECT %s,
			(SELECT COUNT(*) FROM items WHERE items.invoice_id = invoices.id) AS item_count
		FROM invoices
		%s
		ORDER BY created_at DESC
	`, invoiceColumns, where)

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query invoices")
		return nil, 0, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []model.InvoiceWithCount
	for rows.Next() {
		var inv model.InvoiceWithCount
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Username, &inv.Email,
			&inv.TotalAmount, &inv.Status, &inv.CreatedAt, &inv.ItemCount); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan invoice row")
			return nil, 0, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating invoice rows")
		return nil, 0, fmt.Errorf("error iterating invoices: %w", err)
	}

	countWhere, countArgs := buildFilter(filter)
	var total int
	countQuery := "SELECT COUNT(*) FROM invoices " + countWhere
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count invoices")
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	return invoices, total, nil
}

// UpdateStatusIf performs a compare-and-set status transition, so a racing
// administrator override is never silently overwritten.
func (r *orderRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		r.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to update invoice status")
		return false, fmt.Errorf("failed to update invoice status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SetStatus unconditionally sets the status and returns the updated invoice.
func (r *orderRepository) SetStatus(ctx context.Context, id uuid.UUID, to model.OrderStatus) (*model.Invoice, error) {
	query := fmt.Sprintf(`
		UPDATE invoices SET status = $2 WHERE id = $1
		RETURNING %s
	`, invoiceColumns)

	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, id, to))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to set invoice status")
		return nil, fmt.Errorf("failed to set invoice status: %w", err)
	}

	return &inv, nil
}

// MonthlyRevenue sums completed-invoice totals per month over [from, to).
// Months with no completed invoices are absent from the result.
func (r *orderRepository) MonthlyRevenue(ctx context.Context, from, to time.Time) ([]MonthBucket, error) {
	query := `
		SELECT EXTRACT(MONTH FROM date_trunc('month', created_at))::int AS month,
			COALESCE(SUM(total_amount), 0) AS revenue,
			COUNT(*) AS order_count
		FROM invoices
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := r.pool.Query(ctx, query, model.StatusCompleted, from, to)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query monthly revenue")
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	defer rows.Close()

	var buckets []MonthBucket
	for rows.Next() {
		var b MonthBucket
		if err := rows.Scan(&b.Month, &b.Revenue, &b.OrderCount); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan revenue row")
			return nil, fmt.Errorf("failed to scan revenue row: %w", err)
		}
		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating revenue rows")
		return nil, fmt.Errorf("error iterating revenue rows: %w", err)
	}

	return buckets, nil
}
