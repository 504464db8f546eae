package service

import (
	"context"
	"fmt"
	"time"

	"bakery-storefront/internal/model"
	"bakery-storefront/internal/repository"

	"github.com/rs/zerolog"
)

const recentOrdersShown = 5

// reportService implements ReportService.
type reportService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
	logger    zerolog.Logger
}

// NewReportService creates a new report service.
func NewReportService(orderRepo repository.OrderRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		orderRepo: orderRepo,
		now:       time.Now,
		logger:    logger.With().Str("service", "report").Logger(),
	}
}

// Overview returns lifetime revenue, this month's order count and the
// latest transactions.
func (s *reportService) Overview(ctx context.Context, principal *model.Principal) (*model.OwnerOverview, error) {
	if err := requireOwner(principal); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	revenue, count, err := s.orderRepo.RevenueSummary(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue: %w", err)
	}

	recent, err := s.orderRepo.ListRecent(ctx, recentOrdersShown)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	return &model.OwnerOverview{
		TotalRevenue:    revenue,
		OrdersThisMonth: count,
		RecentOrders:    recent,
	}, nil
}
