package handler

import (
	"encoding/json"
	"net/http"

	"bookstore/internal/model"
	"bookstore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookHandler handles catalogue HTTP requests.
type BookHandler struct {
	service service.BookService
	logger  zerolog.Logger
}

// NewBookHandler creates a new book handler.
func NewBookHandler(service service.BookService, logger zerolog.Logger) *BookHandler {
	return &BookHandler{
		service: service,
		logger:  logger.With().Str("handler", "book").Logger(),
	}
}

// List handles GET /api/books requests.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	result, err := h.service.GetAll(r.Context(), page, limit)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/books/{id} requests.
func (h *BookHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, model.ErrCodeMissingField, "invalid book ID format")
		return
	}

	book, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// Search handles GET /api/books/search?q= requests.
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeBadRequest(w, model.ErrCodeMissingField, "search query is required")
		return
	}

	page, limit := parsePagination(r)
	result, err := h.service.Search(r.Context(), query, page, limit)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Filter handles GET /api/books/filter?categoryId= requests.
func (h *BookHandler) Filter(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(r.URL.Query().Get("categoryId"))
	if err != nil {
		writeBadRequest(w, model.ErrCodeMissingField, "invalid category ID format")
		return
	}

	page, limit := parsePagination(r)
	result, err := h.service.GetByCategory(r.Context(), categoryID, page, limit)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Create handles POST /api/books requests. Admin only, enforced by the
// router.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	book, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, book)
}

// Update handles PUT /api/books/{id} requests. Admin only.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, model.ErrCodeMissingField, "invalid book ID format")
		return
	}

	var req model.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	book, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// Delete handles DELETE /api/books/{id} requests. Admin only.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, model.ErrCodeMissingField, "invalid book ID format")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted"})
}
