package service

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRevenueService_MonthlyRevenue(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	buckets := []repository.MonthBucket{
		{Month: 3, Revenue: decimal.RequireFromString("120.50"), OrderCount: 4},
		{Month: 11, Revenue: decimal.RequireFromString("79.50"), OrderCount: 2},
	}

	mockOrderRepo := new(MockOrderRepository)
	svc := NewRevenueService(mockOrderRepo, logger)

	mockOrderRepo.On("MonthlyRevenue", ctx, from, to).Return(buckets, nil)

	report, err := svc.MonthlyRevenue(ctx, 2025)

	require.NoError(t, err)
	assert.Equal(t, 2025, report.Year)
	require.Len(t, report.Months, 12)

	assert.Equal(t, "March", report.Months[2].MonthName)
	assert.True(t, report.Months[2].Revenue.Equal(decimal.RequireFromString("120.50")))
	assert.Equal(t, 4, report.Months[2].OrderCount)

	assert.Equal(t, "November", report.Months[10].MonthName)
	assert.True(t, report.Months[10].Revenue.Equal(decimal.RequireFromString("79.50")))

	// Months without completed orders report zero, not absence.
	assert.True(t, report.Months[0].Revenue.IsZero())
	assert.Equal(t, 0, report.Months[0].OrderCount)

	// The grand total is exactly the sum of the monthly figures.
	sum := decimal.Zero
	for _, m := range report.Months {
		sum = sum.Add(m.Revenue)
	}
	assert.True(t, report.TotalRevenue.Equal(sum))
	assert.True(t, report.TotalRevenue.Equal(decimal.RequireFromString("200.00")))

	mockOrderRepo.AssertExpectations(t)
}

func TestRevenueService_MonthlyRevenue_DefaultsToCurrentYear(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	fixed := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	mockOrderRepo := new(MockOrderRepository)
	svc := &revenueService{
		orderRepo: mockOrderRepo,
		logger:    logger,
		now:       func() time.Time { return fixed },
	}

	mockOrderRepo.On("MonthlyRevenue", ctx, from, to).Return([]repository.MonthBucket{}, nil)

	report, err := svc.MonthlyRevenue(ctx, 0)

	require.NoError(t, err)
	assert.Equal(t, 2026, report.Year)
	assert.True(t, report.TotalRevenue.IsZero())
	mockOrderRepo.AssertExpectations(t)
}

func TestRevenueService_MonthlyRevenue_EmptyYear(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	svc := NewRevenueService(mockOrderRepo, logger)

	mockOrderRepo.On("MonthlyRevenue", ctx, mock.Anything, mock.Anything).
		Return([]repository.MonthBucket{}, nil)

	report, err := svc.MonthlyRevenue(ctx, 2020)

	require.NoError(t, err)
	require.Len(t, report.Months, 12)
	for i, m := range report.Months {
		assert.Equal(t, i+1, m.Month)
		assert.True(t, m.Revenue.IsZero())
	}
	assert.True(t, report.TotalRevenue.IsZero())
}
