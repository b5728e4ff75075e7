package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the per-user basket. Each user owns exactly one cart, created
// lazily on first access and emptied (not deleted) by checkout.
type Cart struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItem is one line of a cart: a book reference and a quantity. The cart
// never stores prices; they are resolved against the catalogue by readers.
type CartItem struct {
	BookID   uuid.UUID `json:"bookId" db:"book_id"`
	Quantity int       `json:"quantity" db:"quantity"`
}

// CartRequest represents the payload for cart mutations.
type CartRequest struct {
	BookID   uuid.UUID `json:"bookId"`
	Quantity int       `json:"quantity"`
}

// CartLineView is a cart line enriched with live catalogue data for display.
type CartLineView struct {
	Book     Book            `json:"book"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the price-enriched projection of a cart returned to clients.
type CartView struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Items       []CartLineView  `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
}
