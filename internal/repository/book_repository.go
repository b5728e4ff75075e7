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

// bookRepository implements the BookRepository interface using PostgreSQL.
type bookRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBookRepository creates a new PostgreSQL-backed book repository.
func NewBookRepository(pool *pgxpool.Pool, logger zerolog.Logger) BookRepository {
	return &bookRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "book").Logger(),
	}
}

const bookColumns = "id, title, author, price, category_id, description, created_at, updated_at"

func scanBook(row pgx.Row) (model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Price, &b.CategoryID, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *bookRepository) collectBooks(rows pgx.Rows) ([]model.Book, error) {
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan book row")
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating book rows")
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

// GetAll retrieves books with pagination, returning the total count.
func (r *bookRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Book, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		ORDER BY title
		LIMIT $1 OFFSET $2
	`, bookColumns)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query books")
		return nil, 0, fmt.Errorf("failed to query books: %w", err)
	}

	books, err := r.collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count books")
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	return books, total, nil
}

// GetByID retrieves a single book by its ID.
func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)

	b, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("book_id", id.String()).Msg("book not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("book_id", id.String()).Msg("failed to query book")
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	return &b, nil
}

// GetByIDs retrieves multiple books by their IDs.
func (r *bookRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Book, error) {
	if len(ids) == 0 {
		return []model.Book{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = ANY($1) ORDER BY title`, bookColumns)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query books by IDs")
		return nil, fmt.Errorf("failed to query books by IDs: %w", err)
	}

	return r.collectBooks(rows)
}

// Search retrieves books whose title or author contains the query, case-insensitively.
func (r *bookRepository) Search(ctx context.Context, query string, limit, offset int) ([]model.Book, int, error) {
	pattern := "%" + query + "%"

	sql := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE title ILIKE $1 OR author ILIKE $1
		ORDER BY title
		LIMIT $2 OFFSET $3
	`, bookColumns)

	rows, err := r.pool.Query(ctx, sql, pattern, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Str("query", query).Msg("failed to search books")
		return nil, 0, fmt.Errorf("failed to search books: %w", err)
	}

	books, err := r.collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM books WHERE title ILIKE $1 OR author ILIKE $1`
	if err := r.pool.QueryRow(ctx, countSQL, pattern).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count search results")
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	return books, total, nil
}

// GetByCategory retrieves books in a category with pagination.
func (r *bookRepository) GetByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]model.Book, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE category_id = $1
		ORDER BY title
		LIMIT $2 OFFSET $3
	`, bookColumns)

	rows, err := r.pool.Query(ctx, query, categoryID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", categoryID.String()).Msg("failed to query books by category")
		return nil, 0, fmt.Errorf("failed to query books by category: %w", err)
	}

	books, err := r.collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM books WHERE category_id = $1`
	if err := r.pool.QueryRow(ctx, countSQL, categoryID).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count books by category")
		return nil, 0, fmt.Errorf("failed to count books by category: %w", err)
	}

	return books, total, nil
}

// Create inserts a new book.
func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, title, author, price, category_id, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID, book.Title, book.Author, book.Price, book.CategoryID,
		book.Description, book.CreatedAt, book.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("book_id", book.ID.String()).Msg("failed to create book")
		return fmt.Errorf("failed to create book: %w", err)
	}

	r.logger.Debug().Str("book_id", book.ID.String()).Msg("book created")
	return nil
}

// Update rewrites a book's mutable fields.
func (r *bookRepository) Update(ctx context.Context, book *model.Book) (bool, error) {
	query := `
		UPDATE books
		SET title = $2, author = $3, price = $4, category_id = $5, description = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		book.ID, book.Title, book.Author, book.Price, book.CategoryID,
		book.Description, book.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("book_id", book.ID.String()).Msg("failed to update book")
		return false, fmt.Errorf("failed to update book: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a book.
func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("book_id", id.String()).Msg("failed to delete book")
		return false, fmt.Errorf("failed to delete book: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
