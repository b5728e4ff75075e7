package repository

import (
	"context"
	"fmt"

	"bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
// The carts table enforces one cart per user; cart_items is keyed by
// (cart_id, book_id) so a book can never appear on two lines.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// ensureCart inserts the user's cart row if it does not exist and returns its ID.
func (r *cartRepository) ensureCart(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	query := `
		INSERT INTO carts (id, user_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, uuid.New(), userID); err != nil {
		return uuid.Nil, fmt.Errorf("failed to ensure cart: %w", err)
	}

	var cartID uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load cart id: %w", err)
	}

	return cartID, nil
}

func (r *cartRepository) loadItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	query := `
		SELECT book_id, quantity
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY book_id
	`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.BookID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// GetOrCreate fetches the user's cart, creating an empty one on first access.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	if _, err := r.ensureCart(ctx, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get or create cart")
		return nil, err
	}

	var cart model.Cart
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, updated_at FROM carts WHERE user_id = $1`, userID).
		Scan(&cart.ID, &cart.UserID, &cart.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	items, err := r.loadItems(ctx, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to load cart items")
		return nil, err
	}
	cart.Items = items

	return &cart, nil
}

// AddItem upserts a line, incrementing the quantity of an existing bookId.
func (r *cartRepository) AddItem(ctx context.Context, userID, bookID uuid.UUID, quantity int) error {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to ensure cart for add")
		return err
	}

	query := `
		INSERT INTO cart_items (cart_id, book_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	if _, err := r.pool.Exec(ctx, query, cartID, bookID, quantity); err != nil {
		r.logger.Error().Err(err).
			Str("cart_id", cartID.String()).
			Str("book_id", bookID.String()).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return r.touch(ctx, cartID)
}

// SetItemQuantity updates a line's quantity; quantity <= 0 removes the line.
func (r *cartRepository) SetItemQuantity(ctx context.Context, userID, bookID uuid.UUID, quantity int) (bool, error) {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to ensure cart for update")
		return false, err
	}

	var tag string
	var affected int64
	if quantity <= 0 {
		t, err := r.pool.Exec(ctx,
			`DELETE FROM cart_items WHERE cart_id = $1 AND book_id = $2`, cartID, bookID)
		if err != nil {
			r.logger.Error().Err(err).Str("book_id", bookID.String()).Msg("failed to delete cart item")
			return false, fmt.Errorf("failed to delete cart item: %w", err)
		}
		affected, tag = t.RowsAffected(), "delete"
	} else {
		t, err := r.pool.Exec(ctx,
			`UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND book_id = $2`,
			cartID, bookID, quantity)
		if err != nil {
			r.logger.Error().Err(err).Str("book_id", bookID.String()).Msg("failed to update cart item")
			return false, fmt.Errorf("failed to update cart item: %w", err)
		}
		affected, tag = t.RowsAffected(), "update"
	}

	if affected == 0 {
		r.logger.Debug().
			Str("cart_id", cartID.String()).
			Str("book_id", bookID.String()).
			Str("op", tag).
			Msg("cart item not present")
		return false, nil
	}

	return true, r.touch(ctx, cartID)
}

// RemoveItem deletes a line; removing an absent line is a no-op.
func (r *cartRepository) RemoveItem(ctx context.Context, userID, bookID uuid.UUID) error {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to ensure cart for remove")
		return err
	}

	if _, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND book_id = $2`, cartID, bookID); err != nil {
		r.logger.Error().Err(err).Str("book_id", bookID.String()).Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return r.touch(ctx, cartID)
}

// Clear removes all lines from the user's cart.
func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to ensure cart for clear")
		return err
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return r.touch(ctx, cartID)
}

// GetForUpdate locks the cart row within the transaction and returns the
// cart with its items. A concurrent checkout for the same user blocks here
// until the first transaction commits, then observes the cleared cart.
func (r *cartRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := tx.QueryRow(ctx,
		`SELECT id, user_id, updated_at FROM carts WHERE user_id = $1 FOR UPDATE`, userID).
		Scan(&cart.ID, &cart.UserID, &cart.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", userID.String()).Msg("no cart to lock")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT book_id, quantity FROM cart_items WHERE cart_id = $1 ORDER BY book_id`, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to query locked cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.BookID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// ClearTx removes all lines within the provided transaction.
func (r *cartRepository) ClearTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart in transaction")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}

	return nil
}

func (r *cartRepository) touch(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}
	return nil
}
