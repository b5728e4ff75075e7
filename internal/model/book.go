package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book represents a title in the catalogue.
type Book struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Author      string          `json:"author" db:"author"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CategoryID  *uuid.UUID      `json:"categoryId,omitempty" db:"category_id"`
	Description string          `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// BookRequest represents the payload for creating or updating a book.
type BookRequest struct {
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *uuid.UUID      `json:"categoryId,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Validate checks the request for required fields and sane values.
func (r *BookRequest) Validate() error {
	if r.Title == "" {
		return NewInvalidRequest(ErrCodeMissingField, "Book title is required")
	}
	if r.Author == "" {
		return NewInvalidRequest(ErrCodeMissingField, "Book author is required")
	}
	if r.Price.Sign() <= 0 {
		return NewInvalidRequest(ErrCodeMissingField, "Book price must be greater than zero")
	}
	return nil
}

// Category groups books in the catalogue.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// CategoryRequest represents the payload for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Validate checks the request for required fields.
func (r *CategoryRequest) Validate() error {
	if r.Name == "" {
		return NewInvalidRequest(ErrCodeMissingField, "Category name is required")
	}
	return nil
}
