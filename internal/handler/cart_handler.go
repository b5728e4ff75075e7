package handler

import (
	"encoding/json"
	"net/http"

	"bookstore/internal/middleware"
	"bookstore/internal/model"
	"bookstore/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), requester.ID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/add requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	var req model.CartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	cart, err := h.service.AddItem(r.Context(), requester.ID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/update requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	var req model.CartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), requester.ID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/remove?bookId= requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	bookID, err := uuid.Parse(r.URL.Query().Get("bookId"))
	if err != nil {
		writeBadRequest(w, model.ErrCodeMissingField, "invalid book ID format")
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), requester.ID, bookID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/cart/clear requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.RequesterFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUserNotFound, h.logger)
		return
	}

	if err := h.service.Clear(r.Context(), requester.ID); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}
