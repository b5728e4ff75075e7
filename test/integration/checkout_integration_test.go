package integration

import (
	"context"
	"errors"
	"testing"

	"bookstore/internal/model"
	"bookstore/internal/repository"
	"bookstore/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newCheckoutStack(testDB *TestDB) (service.CartService, service.CheckoutService, service.OrderService) {
	logger := zerolog.Nop()
	bookRepo := repository.NewBookRepository(testDB.Pool, logger)
	cartRepo := repository.NewCartRepository(testDB.Pool, logger)
	userRepo := repository.NewUserRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	cartService := service.NewCartService(cartRepo, bookRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, cartRepo, bookRepo, userRepo, logger)
	orderService := service.NewOrderService(orderRepo, bookRepo, logger)
	return cartService, checkoutService, orderService
}

func TestCheckout_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()

	t.Run("checkout converts the cart and empties it", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		cartService, checkoutService, orderService := newCheckoutStack(testDB)

		user := SeedUser(t, testDB.Pool, model.RoleUser)
		bookA := SeedBook(t, testDB.Pool, "50.00")
		bookB := SeedBook(t, testDB.Pool, "10.00")

		_, err := cartService.AddItem(ctx, user.ID, &model.CartRequest{BookID: bookA.ID, Quantity: 2})
		require.NoError(t, err)
		_, err = cartService.AddItem(ctx, user.ID, &model.CartRequest{BookID: bookB.ID, Quantity: 3})
		require.NoError(t, err)

		result, err := checkoutService.Checkout(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, result.Invoice.TotalAmount.Equal(decimal.RequireFromString("130.00")))
		assert.Equal(t, model.StatusPending, result.Invoice.Status)
		assert.Equal(t, user.Username, result.Invoice.Username)

		cart, err := cartService.GetCart(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)

		requester := model.Requester{ID: user.ID, Role: model.RoleUser}
		detail, err := orderService.GetOrderDetail(ctx, requester, result.Invoice.ID)
		require.NoError(t, err)
		assert.Len(t, detail.Items, 2)
		assert.Equal(t, result.Invoice.OrderNumber(), detail.OrderNumber)

		// A second checkout against the now-empty cart fails.
		_, err = checkoutService.Checkout(ctx, user.ID)
		assert.ErrorIs(t, err, model.ErrEmptyCart)
	})

	t.Run("checkout drops lines whose book was deleted", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		cartService, checkoutService, _ := newCheckoutStack(testDB)

		user := SeedUser(t, testDB.Pool, model.RoleUser)
		keeper := SeedBook(t, testDB.Pool, "20.00")
		doomed := SeedBook(t, testDB.Pool, "99.00")

		_, err := cartService.AddItem(ctx, user.ID, &model.CartRequest{BookID: keeper.ID, Quantity: 2})
		require.NoError(t, err)
		_, err = cartService.AddItem(ctx, user.ID, &model.CartRequest{BookID: doomed.ID, Quantity: 1})
		require.NoError(t, err)

		_, err = testDB.Pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, doomed.ID)
		require.NoError(t, err)

		result, err := checkoutService.Checkout(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, keeper.ID, result.Items[0].BookID)
		assert.True(t, result.Invoice.TotalAmount.Equal(decimal.RequireFromString("40.00")))
	})

	t.Run("concurrent checkouts produce exactly one invoice", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		cartService, checkoutService, _ := newCheckoutStack(testDB)

		user := SeedUser(t, testDB.Pool, model.RoleUser)
		book := SeedBook(t, testDB.Pool, "10.00")

		_, err := cartService.AddItem(ctx, user.ID, &model.CartRequest{BookID: book.ID, Quantity: 1})
		require.NoError(t, err)

		const workers = 8
		var g errgroup.Group
		successes := make(chan struct{}, workers)

		for i := 0; i < workers; i++ {
			g.Go(func() error {
				_, err := checkoutService.Checkout(ctx, user.ID)
				if err == nil {
					successes <- struct{}{}
					return nil
				}
				if errors.Is(err, model.ErrEmptyCart) {
					return nil
				}
				return err
			})
		}

		require.NoError(t, g.Wait())
		close(successes)

		count := 0
		for range successes {
			count++
		}
		assert.Equal(t, 1, count, "exactly one checkout should succeed")

		var invoices int
		err = testDB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE user_id = $1`, user.ID).Scan(&invoices)
		require.NoError(t, err)
		assert.Equal(t, 1, invoices)
	})
}

func TestOrderLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()

	CleanupDB(t, testDB.Pool)
	cartService, checkoutService, orderService := newCheckoutStack(testDB)

	user := SeedUser(t, testDB.Pool, model.RoleUser)
	admin := SeedUser(t, testDB.Pool, model.RoleAdmin)
	book := SeedBook(t, testDB.Pool, "25.00")

	_, err := cartService.AddItem(ctx, user.ID, &model.CartRequest{BookID: book.ID, Quantity: 2})
	require.NoError(t, err)

	result, err := checkoutService.Checkout(ctx, user.ID)
	require.NoError(t, err)
	orderID := result.Invoice.ID

	owner := model.Requester{ID: user.ID, Role: model.RoleUser}
	stranger := model.Requester{ID: admin.ID, Role: model.RoleUser}
	adminReq := model.Requester{ID: admin.ID, Role: model.RoleAdmin}

	// Only the owner confirms receipt.
	err = orderService.MarkReceived(ctx, stranger, orderID)
	assert.ErrorIs(t, err, model.ErrNotOrderOwner)

	require.NoError(t, orderService.MarkReceived(ctx, owner, orderID))

	// Confirming twice reports the completed state.
	err = orderService.MarkReceived(ctx, owner, orderID)
	assert.ErrorIs(t, err, model.ErrOrderCompleted)

	// Administrators override any state.
	updated, err := orderService.UpdateStatus(ctx, adminReq, orderID, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, updated.Status)

	// A cancelled order cannot be confirmed.
	err = orderService.MarkReceived(ctx, owner, orderID)
	assert.ErrorIs(t, err, model.ErrOrderCancelled)

	// Users see only their own orders; admins see all.
	page, err := orderService.ListOrders(ctx, owner, model.OrderFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = orderService.ListOrders(ctx, adminReq, model.OrderFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	_, err = orderService.GetOrderDetail(ctx, stranger, orderID)
	assert.ErrorIs(t, err, model.ErrNotOrderOwner)
}
