package service

import (
	"context"
	"fmt"

	"bookstore/internal/model"
	"bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService. Prices are never stored on the cart;
// the view resolves them against the catalogue at read time so stored state
// cannot drift from the catalogue before checkout.
type cartService struct {
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, bookRepo repository.BookRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart returns the user's cart enriched with live catalogue prices.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return s.buildView(ctx, cart)
}

// AddItem adds a book to the cart, incrementing the quantity of an existing line.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.CartRequest) (*model.CartView, error) {
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	book, err := s.bookRepo.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve book: %w", err)
	}
	if book == nil {
		return nil, model.ErrBookNotFound
	}

	if err := s.cartRepo.AddItem(ctx, userID, req.BookID, req.Quantity); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("book_id", req.BookID.String()).
		Int("quantity", req.Quantity).
		Msg("item added to cart")

	return s.GetCart(ctx, userID)
}

// UpdateItem sets a line's quantity; a quantity of zero or less removes the line.
func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *model.CartRequest) (*model.CartView, error) {
	found, err := s.cartRepo.SetItemQuantity(ctx, userID, req.BookID, req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if !found {
		return nil, model.ErrCartItemNotFound
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem removes a book from the cart; removing an absent line is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, userID, bookID uuid.UUID) (*model.CartView, error) {
	if err := s.cartRepo.RemoveItem(ctx, userID, bookID); err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.logger.Debug().Str("user_id", userID.String()).Msg("cart cleared")
	return nil
}

// buildView resolves each line against the catalogue. Lines whose book has
// vanished are omitted from the view.
func (s *cartService) buildView(ctx context.Context, cart *model.Cart) (*model.CartView, error) {
	view := &model.CartView{
		ID:          cart.ID,
		UserID:      cart.UserID,
		Items:       []model.CartLineView{},
		TotalAmount: decimal.Zero,
	}

	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]uuid.UUID, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.BookID
	}

	books, err := s.bookRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart books: %w", err)
	}

	byID := make(map[uuid.UUID]model.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	for _, item := range cart.Items {
		book, ok := byID[item.BookID]
		if !ok {
			s.logger.Warn().
				Str("cart_id", cart.ID.String()).
				Str("book_id", item.BookID.String()).
				Msg("cart references a deleted book")
			continue
		}

		subtotal := book.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, model.CartLineView{
			Book:     book,
			Quantity: item.Quantity,
			Subtotal: subtotal,
		})
		view.TotalAmount = view.TotalAmount.Add(subtotal)
	}

	view.ItemCount = len(view.Items)
	return view, nil
}
