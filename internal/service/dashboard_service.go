package service

import (
	"context"

	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"go.uber.org/zap"
)

// DashboardService aggregates workflow counts for internal staff
type DashboardService struct {
	rfqRepo       *repository.RFQRepository
	quotationRepo *repository.QuotationRepository
	orderRepo     *repository.OrderRepository
	logger        *zap.Logger
}

// NewDashboardService creates a dashboard service
func NewDashboardService(
	rfqRepo *repository.RFQRepository,
	quotationRepo *repository.QuotationRepository,
	orderRepo *repository.OrderRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		rfqRepo:       rfqRepo,
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
		logger:        logger,
	}
}

// Metrics computes status counts and the quotation acceptance rate.
// The acceptance rate counts approved quotations against all decided ones
// (approved, rejected and expired).
func (s *DashboardService) Metrics(ctx context.Context) (*domain.DashboardMetricsDTO, error) {
	rfqs, err := s.rfqRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	quotations, err := s.quotationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	openValue, err := s.orderRepo.SumOpenValue(ctx)
	if err != nil {
		return nil, err
	}

	approved := quotations[string(domain.QuotationStatusApproved)]
	decided := approved +
		quotations[string(domain.QuotationStatusRejected)] +
		quotations[string(domain.QuotationStatusExpired)]
	acceptanceRate := 0.0
	if decided > 0 {
		acceptanceRate = float64(approved) / float64(decided)
	}

	return &domain.DashboardMetricsDTO{
		RFQsByStatus:       rfqs,
		QuotationsByStatus: quotations,
		OrdersByStatus:     orders,
		AcceptanceRate:     acceptanceRate,
		OpenOrderValue:     openValue,
	}, nil
}
