package service

import (
	"context"
	"fmt"
	"time"

	"bookstore/internal/model"
	"bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// checkoutService implements CheckoutService. The whole conversion runs in
// one transaction holding a row lock on the cart, which serializes
// concurrent checkouts per user: the second caller blocks on the lock and
// then observes the cleared cart, so one cart state yields at most one
// invoice.
type checkoutService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	bookRepo  repository.BookRepository
	userRepo  repository.UserRepository
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		userRepo:  userRepo,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout converts the user's cart into an invoice plus items and empties
// the cart. Cart lines whose book no longer exists are dropped with a warn
// log; a cart with no surviving lines fails before anything is written.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID) (*model.CheckoutResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// A missing cart is treated identically to an empty one.
	cart, err := s.cartRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		err = model.ErrEmptyCart
		return nil, err
	}

	ids := make([]uuid.UUID, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.BookID
	}

	books, err := s.bookRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve books: %w", err)
	}

	byID := make(map[uuid.UUID]model.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	now := time.Now()
	invoiceID := uuid.New()

	var (
		lines         []model.CheckoutLine
		items         []model.InvoiceItem
		totalAmount   = decimal.Zero
		totalQuantity int
	)

	for _, cartItem := range cart.Items {
		book, ok := byID[cartItem.BookID]
		if !ok {
			// Deleted since the cart was filled: dropped, not an error.
			s.logger.Warn().
				Str("user_id", userID.String()).
				Str("book_id", cartItem.BookID.String()).
				Msg("dropping cart line for deleted book")
			continue
		}

		subtotal := book.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity)))
		totalAmount = totalAmount.Add(subtotal)
		totalQuantity += cartItem.Quantity

		lines = append(lines, model.CheckoutLine{
			BookID:    book.ID,
			BookTitle: book.Title,
			Price:     book.Price,
			Quantity:  cartItem.Quantity,
			Subtotal:  subtotal,
		})

		items = append(items, model.InvoiceItem{
			ID:        uuid.New(),
			InvoiceID: invoiceID,
			BookID:    book.ID,
			Price:     book.Price,
			Quantity:  cartItem.Quantity,
			CreatedAt: now,
		})
	}

	if len(items) == 0 {
		err = model.ErrNoValidItems
		return nil, err
	}

	invoice := model.Invoice{
		ID:          invoiceID,
		UserID:      userID,
		Username:    user.Username,
		Email:       user.Email,
		TotalAmount: totalAmount,
		Status:      model.StatusPending,
		CreatedAt:   now,
	}

	if err = s.orderRepo.CreateInvoice(ctx, tx, &invoice); err != nil {
		s.logger.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("failed to create invoice")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if err = s.orderRepo.CreateItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("invoice_id", invoiceID.String()).
			Int("item_count", len(items)).
			Msg("failed to create invoice items")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if err = s.cartRepo.ClearTx(ctx, tx, cart.ID); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to clear cart")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	s.logger.Info().
		Str("invoice_id", invoiceID.String()).
		Str("user_id", userID.String()).
		Str("total_amount", totalAmount.String()).
		Int("item_count", len(items)).
		Int("dropped", len(cart.Items)-len(items)).
		Msg("checkout completed")

	return &model.CheckoutResult{
		Invoice: invoice,
		Items:   lines,
		Summary: model.CheckoutSummary{
			TotalItems:    len(items),
			TotalQuantity: totalQuantity,
			TotalAmount:   totalAmount,
		},
	}, nil
}
