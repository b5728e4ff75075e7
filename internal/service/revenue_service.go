package service

import (
	"context"
	"fmt"
	"time"

	"bookstore/internal/model"
	"bookstore/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// revenueService implements RevenueService over completed invoices.
type revenueService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewRevenueService creates a new revenue service.
func NewRevenueService(orderRepo repository.OrderRepository, logger zerolog.Logger) RevenueService {
	return &revenueService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "revenue").Logger(),
		now:       time.Now,
	}
}

// MonthlyRevenue computes per-month completed-order revenue for a calendar
// year; 0 means the current year. Each month is the half-open interval
// [monthStart, nextMonthStart), so no order is counted twice. The grand
// total is the decimal sum of the twelve monthly figures in month order.
func (s *revenueService) MonthlyRevenue(ctx context.Context, year int) (*model.RevenueReport, error) {
	if year == 0 {
		year = s.now().Year()
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	buckets, err := s.orderRepo.MonthlyRevenue(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	byMonth := make(map[int]repository.MonthBucket, len(buckets))
	for _, b := range buckets {
		byMonth[b.Month] = b
	}

	report := &model.RevenueReport{
		Year:         year,
		Months:       make([]model.MonthlyRevenue, 12),
		TotalRevenue: decimal.Zero,
	}

	for month := 1; month <= 12; month++ {
		entry := model.MonthlyRevenue{
			Month:     month,
			MonthName: monthNames[month-1],
			Revenue:   decimal.Zero,
		}
		if b, ok := byMonth[month]; ok {
			entry.Revenue = b.Revenue
			entry.OrderCount = b.OrderCount
		}
		report.Months[month-1] = entry
		report.TotalRevenue = report.TotalRevenue.Add(entry.Revenue)
	}

	s.logger.Debug().
		Int("year", year).
		Str("total_revenue", report.TotalRevenue.String()).
		Msg("monthly revenue computed")

	return report, nil
}
