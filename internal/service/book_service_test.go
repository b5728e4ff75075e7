package service

import (
	"context"
	"testing"

	"bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookService_GetAll_Pagination(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	books := []model.Book{testBook("One", "5.00"), testBook("Two", "6.00")}

	mockBookRepo := new(MockBookRepository)
	svc := NewBookService(mockBookRepo, new(MockCategoryRepository), logger)

	mockBookRepo.On("GetAll", ctx, 2, 2).Return(books, 5, nil)

	page, err := svc.GetAll(ctx, 1, 2)

	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 2)
}

func TestBookService_GetAll_DefaultsBadBounds(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockBookRepo := new(MockBookRepository)
	svc := NewBookService(mockBookRepo, new(MockCategoryRepository), logger)

	mockBookRepo.On("GetAll", ctx, 10, 0).Return([]model.Book{}, 0, nil)

	_, err := svc.GetAll(ctx, -3, 0)

	require.NoError(t, err)
	mockBookRepo.AssertExpectations(t)
}

func TestBookService_GetByID_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	id := uuid.New()

	mockBookRepo := new(MockBookRepository)
	svc := NewBookService(mockBookRepo, new(MockCategoryRepository), logger)

	mockBookRepo.On("GetByID", ctx, id).Return(nil, nil)

	_, err := svc.GetByID(ctx, id)

	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestBookService_Create_UnknownCategory(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	categoryID := uuid.New()

	mockBookRepo := new(MockBookRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	svc := NewBookService(mockBookRepo, mockCategoryRepo, logger)

	mockCategoryRepo.On("GetByID", ctx, categoryID).Return(nil, nil)

	_, err := svc.Create(ctx, &model.BookRequest{
		Title:      "Orphan",
		Author:     "Nobody",
		Price:      decimal.RequireFromString("9.99"),
		CategoryID: &categoryID,
	})

	assert.ErrorIs(t, err, model.ErrCategoryNotFound)
	mockBookRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookService_Create_InvalidRequest(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	svc := NewBookService(new(MockBookRepository), new(MockCategoryRepository), logger)

	cases := []model.BookRequest{
		{Author: "A", Price: decimal.RequireFromString("1.00")},
		{Title: "T", Price: decimal.RequireFromString("1.00")},
		{Title: "T", Author: "A"},
		{Title: "T", Author: "A", Price: decimal.RequireFromString("-1.00")},
	}

	for _, req := range cases {
		_, err := svc.Create(ctx, &req)
		assert.Equal(t, model.KindInvalidRequest, model.KindOf(err))
	}
}

func TestBookService_Update_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	existing := testBook("Old Title", "12.00")

	mockBookRepo := new(MockBookRepository)
	svc := NewBookService(mockBookRepo, new(MockCategoryRepository), logger)

	mockBookRepo.On("GetByID", ctx, existing.ID).Return(&existing, nil)
	mockBookRepo.On("Update", ctx, mock.MatchedBy(func(b *model.Book) bool {
		return b.ID == existing.ID && b.Title == "New Title"
	})).Return(true, nil)

	book, err := svc.Update(ctx, existing.ID, &model.BookRequest{
		Title:  "New Title",
		Author: existing.Author,
		Price:  existing.Price,
	})

	require.NoError(t, err)
	assert.Equal(t, "New Title", book.Title)
	assert.Equal(t, existing.CreatedAt, book.CreatedAt)
}

func TestBookService_Delete_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	id := uuid.New()

	mockBookRepo := new(MockBookRepository)
	svc := NewBookService(mockBookRepo, new(MockCategoryRepository), logger)

	mockBookRepo.On("Delete", ctx, id).Return(false, nil)

	err := svc.Delete(ctx, id)

	assert.ErrorIs(t, err, model.ErrBookNotFound)
}
