package router

import (
	"net/http"

	"bookstore/internal/handler"
	"bookstore/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers bundles the HTTP handlers wired into the route table.
type Handlers struct {
	Book     *handler.BookHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Admin    *handler.AdminHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Applied outermost first: Recovery -> Logging -> CORS -> APIKeyAuth -> Identity
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))
	r.Use(middleware.Identity(logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.Book.List)
			r.Get("/search", h.Book.Search)
			r.Get("/filter", h.Book.Filter)
			r.Get("/{id}", h.Book.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logger))
				r.Post("/", h.Book.Create)
				r.Put("/{id}", h.Book.Update)
				r.Delete("/{id}", h.Book.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Category.List)
			r.Get("/{id}", h.Category.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logger))
				r.Post("/", h.Category.Create)
				r.Put("/{id}", h.Category.Update)
				r.Delete("/{id}", h.Category.Delete)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Post("/add", h.Cart.AddItem)
			r.Put("/update", h.Cart.UpdateItem)
			r.Delete("/remove", h.Cart.RemoveItem)
			r.Delete("/clear", h.Cart.Clear)
		})

		r.Post("/checkout", h.Order.Checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/history", h.Order.History)
			r.Get("/{id}", h.Order.GetByID)
			r.Put("/{id}/received", h.Order.MarkReceived)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.Order.ListInvoices)
			r.With(middleware.RequireAdmin(logger)).Get("/all", h.Order.ListAllInvoices)
			r.Get("/{id}", h.Order.GetByID)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logger))

			r.Get("/orders", h.Admin.ListOrders)
			r.Get("/orders/export", h.Admin.ExportOrders)
			r.Get("/orders/{orderId}", h.Admin.GetOrder)
			r.Put("/orders/{orderId}/status", h.Admin.UpdateStatus)
			r.Get("/revenue/monthly", h.Admin.MonthlyRevenue)
		})
	})

	return r
}
