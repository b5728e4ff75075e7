package integration

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/database"
	"bookstore/internal/model"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the embedded
// migrations and opens a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	if err := database.Migrate(connStr, logger); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB truncates all tables between test cases.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx, `TRUNCATE items, invoices, cart_items, carts, books, categories, users CASCADE`)
	if err != nil {
		t.Fatalf("failed to clean up database: %v", err)
	}
}

// SeedUser inserts a user with randomised identity fields.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role model.Role) *model.User {
	t.Helper()

	user := &model.User{
		ID:        uuid.New(),
		Username:  gofakeit.Username(),
		Email:     gofakeit.Email(),
		Role:      role,
		Enabled:   true,
		CreatedAt: time.Now(),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, username, email, role, enabled, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.Email, string(user.Role), user.Enabled, user.CreatedAt)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return user
}

// SeedBook inserts a book with a fixed price and randomised display fields.
func SeedBook(t *testing.T, pool *pgxpool.Pool, price string) *model.Book {
	t.Helper()

	now := time.Now()
	book := &model.Book{
		ID:          uuid.New(),
		Title:       gofakeit.BookTitle(),
		Author:      gofakeit.BookAuthor(),
		Price:       decimal.RequireFromString(price),
		Description: gofakeit.Sentence(8),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO books (id, title, author, price, category_id, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		book.ID, book.Title, book.Author, book.Price, nil, book.Description, book.CreatedAt, book.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to seed book: %v", err)
	}

	return book
}

// SeedInvoice inserts an invoice directly for listing and revenue tests.
func SeedInvoice(t *testing.T, pool *pgxpool.Pool, user *model.User, total string, status model.OrderStatus, createdAt time.Time) *model.Invoice {
	t.Helper()

	invoice := &model.Invoice{
		ID:          uuid.New(),
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		TotalAmount: decimal.RequireFromString(total),
		Status:      status,
		CreatedAt:   createdAt,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO invoices (id, user_id, username, email, total_amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		invoice.ID, invoice.UserID, invoice.Username, invoice.Email, invoice.TotalAmount, string(invoice.Status), invoice.CreatedAt)
	if err != nil {
		t.Fatalf("failed to seed invoice: %v", err)
	}

	return invoice
}
