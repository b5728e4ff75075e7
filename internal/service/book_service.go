package service

import (
	"context"
	"fmt"
	"time"

	"bookstore/internal/model"
	"bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// bookService implements BookService.
type bookService struct {
	bookRepo     repository.BookRepository
	categoryRepo repository.CategoryRepository
	logger       zerolog.Logger
}

// NewBookService creates a new book service.
func NewBookService(bookRepo repository.BookRepository, categoryRepo repository.CategoryRepository, logger zerolog.Logger) BookService {
	return &bookService{
		bookRepo:     bookRepo,
		categoryRepo: categoryRepo,
		logger:       logger.With().Str("service", "book").Logger(),
	}
}

func pageBounds(page, limit int) (int, int) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 10
	}
	return page, limit
}

func (s *bookService) GetAll(ctx context.Context, page, limit int) (model.Page[model.Book], error) {
	page, limit = pageBounds(page, limit)

	books, total, err := s.bookRepo.GetAll(ctx, limit, page*limit)
	if err != nil {
		return model.Page[model.Book]{}, fmt.Errorf("failed to list books: %w", err)
	}

	return model.NewPage(books, total, page, limit), nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		return nil, model.ErrBookNotFound
	}
	return book, nil
}

func (s *bookService) Search(ctx context.Context, query string, page, limit int) (model.Page[model.Book], error) {
	if query == "" {
		return model.Page[model.Book]{}, model.NewInvalidRequest(model.ErrCodeMissingField, "Search query is required")
	}
	page, limit = pageBounds(page, limit)

	books, total, err := s.bookRepo.Search(ctx, query, limit, page*limit)
	if err != nil {
		return model.Page[model.Book]{}, fmt.Errorf("failed to search books: %w", err)
	}

	return model.NewPage(books, total, page, limit), nil
}

func (s *bookService) GetByCategory(ctx context.Context, categoryID uuid.UUID, page, limit int) (model.Page[model.Book], error) {
	page, limit = pageBounds(page, limit)

	books, total, err := s.bookRepo.GetByCategory(ctx, categoryID, limit, page*limit)
	if err != nil {
		return model.Page[model.Book]{}, fmt.Errorf("failed to filter books: %w", err)
	}

	return model.NewPage(books, total, page, limit), nil
}

func (s *bookService) Create(ctx context.Context, req *model.BookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		if category == nil {
			return nil, model.ErrCategoryNotFound
		}
	}

	now := time.Now()
	book := &model.Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Author:      req.Author,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.logger.Info().Str("book_id", book.ID.String()).Str("title", book.Title).Msg("book created")
	return book, nil
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req *model.BookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if existing == nil {
		return nil, model.ErrBookNotFound
	}

	if req.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		if category == nil {
			return nil, model.ErrCategoryNotFound
		}
	}

	book := &model.Book{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now(),
	}

	found, err := s.bookRepo.Update(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	if !found {
		return nil, model.ErrBookNotFound
	}

	return book, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.bookRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if !found {
		return model.ErrBookNotFound
	}

	s.logger.Info().Str("book_id", id.String()).Msg("book deleted")
	return nil
}
