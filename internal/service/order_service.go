package service

import (
	"context"
	"fmt"

	"bookstore/internal/model"
	"bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// orderService implements OrderService: the status machine plus role-scoped
// querying. Role scoping happens in exactly one place, scopeFor, and every
// read path goes through it.
type orderService struct {
	orderRepo repository.OrderRepository
	bookRepo  repository.BookRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, bookRepo repository.BookRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// scopeFor returns the owner filter implied by the requester's role: nil
// (unrestricted) for administrators, the requester's own ID otherwise.
func scopeFor(requester model.Requester) *uuid.UUID {
	if requester.IsAdmin() {
		return nil
	}
	id := requester.ID
	return &id
}

// MarkReceived confirms receipt, transitioning PENDING to COMPLETED via
// compare-and-set so a racing administrator override is never lost.
func (s *orderService) MarkReceived(ctx context.Context, requester model.Requester, orderID uuid.UUID) error {
	invoice, err := s.orderRepo.GetInvoice(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	if invoice == nil {
		return model.ErrOrderNotFound
	}

	if invoice.UserID != requester.ID {
		return model.ErrNotOrderOwner
	}

	updated, err := s.orderRepo.UpdateStatusIf(ctx, orderID, model.StatusPending, model.StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to confirm receipt: %w", err)
	}

	if !updated {
		// The CAS lost: re-read to report the precise current state.
		current, err := s.orderRepo.GetInvoice(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to reload order: %w", err)
		}
		if current == nil {
			return model.ErrOrderNotFound
		}
		switch current.Status {
		case model.StatusCancelled:
			return model.ErrOrderCancelled
		default:
			return model.ErrOrderCompleted
		}
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("user_id", requester.ID.String()).
		Msg("order receipt confirmed")

	return nil
}

// UpdateStatus sets an order's status directly. This deliberately bypasses
// the transition guards so administrators can correct any order; every use
// is audit-logged distinctly from user-triggered transitions.
func (s *orderService) UpdateStatus(ctx context.Context, requester model.Requester, orderID uuid.UUID, status string) (*model.Invoice, error) {
	if !requester.IsAdmin() {
		return nil, model.ErrAdminOnly
	}

	target, err := model.ToOrderStatus(status)
	if err != nil {
		return nil, err
	}

	invoice, err := s.orderRepo.SetStatus(ctx, orderID, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if invoice == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("admin_id", requester.ID.String()).
		Str("status", string(target)).
		Bool("admin_override", true).
		Msg("order status set by administrator")

	return invoice, nil
}

// ListOrders retrieves a filtered, paginated order listing, newest first.
func (s *orderService) ListOrders(ctx context.Context, requester model.Requester, filter model.OrderFilter, page, limit int) (model.Page[model.OrderSummary], error) {
	var zero model.Page[model.OrderSummary]

	if err := filter.Validate(); err != nil {
		return zero, err
	}
	filter.OwnerID = scopeFor(requester)

	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 10
	}

	invoices, total, err := s.orderRepo.List(ctx, filter, limit, page*limit)
	if err != nil {
		return zero, fmt.Errorf("failed to list orders: %w", err)
	}

	summaries := lo.Map(invoices, func(inv model.InvoiceWithCount, _ int) model.OrderSummary {
		return toSummary(inv)
	})

	return model.NewPage(summaries, total, page, limit), nil
}

func toSummary(inv model.InvoiceWithCount) model.OrderSummary {
	return model.OrderSummary{
		OrderID:     inv.ID,
		OrderNumber: inv.OrderNumber(),
		Username:    inv.Username,
		Email:       inv.Email,
		TotalAmount: inv.TotalAmount,
		Status:      inv.Status,
		CreatedAt:   inv.CreatedAt,
		ItemCount:   inv.ItemCount,
	}
}

// GetOrderDetail retrieves one order with its catalogue-enriched items.
// Non-administrators may only read their own orders.
func (s *orderService) GetOrderDetail(ctx context.Context, requester model.Requester, orderID uuid.UUID) (*model.OrderDetail, error) {
	invoice, err := s.orderRepo.GetInvoice(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if invoice == nil {
		return nil, model.ErrOrderNotFound
	}

	if !requester.IsAdmin() && invoice.UserID != requester.ID {
		return nil, model.ErrNotOrderOwner
	}

	items, err := s.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	details := make([]model.OrderItemDetail, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for idx := range items {
		g.Go(func() error {
			item := items[idx]
			title, author := "Unknown", "Unknown"

			book, err := s.bookRepo.GetByID(gctx, item.BookID)
			if err != nil {
				return fmt.Errorf("failed to resolve book %s: %w", item.BookID, err)
			}
			if book != nil {
				title, author = book.Title, book.Author
			}

			details[idx] = model.OrderItemDetail{
				BookID:     item.BookID,
				BookTitle:  title,
				BookAuthor: author,
				Price:      item.Price,
				Quantity:   item.Quantity,
				Subtotal:   item.Subtotal(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.OrderDetail{
		OrderID:     invoice.ID,
		OrderNumber: invoice.OrderNumber(),
		Username:    invoice.Username,
		Email:       invoice.Email,
		TotalAmount: invoice.TotalAmount,
		Status:      invoice.Status,
		CreatedAt:   invoice.CreatedAt,
		Items:       details,
	}, nil
}

// ExportOrders returns the filtered set unpaginated, flattened for
// downstream serialization.
func (s *orderService) ExportOrders(ctx context.Context, requester model.Requester, filter model.OrderFilter) ([]model.OrderSummary, error) {
	if !requester.IsAdmin() {
		return nil, model.ErrAdminOnly
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter.OwnerID = scopeFor(requester)

	invoices, _, err := s.orderRepo.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to export orders: %w", err)
	}

	return lo.Map(invoices, func(inv model.InvoiceWithCount, _ int) model.OrderSummary {
		return toSummary(inv)
	}), nil
}
