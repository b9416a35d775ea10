package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/config"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuotationService prices RFQs and runs the quotation lifecycle through to
// order creation. Approval and order creation are one transaction: a
// customer accepting a quotation either gets both the APPROVED status and
// the order, or neither.
type QuotationService struct {
	db            *gorm.DB
	repo          *repository.QuotationRepository
	rfqService    *RFQService
	orderRepo     *repository.OrderRepository
	pricing       *PricingService
	pricingCfg    *config.PricingConfig
	numbers       *NumberSequenceService
	activities    *ActivityService
	notifications *NotificationService
	logger        *zap.Logger
}

// NewQuotationService creates a quotation service
func NewQuotationService(
	db *gorm.DB,
	repo *repository.QuotationRepository,
	rfqService *RFQService,
	orderRepo *repository.OrderRepository,
	pricing *PricingService,
	pricingCfg *config.PricingConfig,
	numbers *NumberSequenceService,
	activities *ActivityService,
	notifications *NotificationService,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		db:            db,
		repo:          repo,
		rfqService:    rfqService,
		orderRepo:     orderRepo,
		pricing:       pricing,
		pricingCfg:    pricingCfg,
		numbers:       numbers,
		activities:    activities,
		notifications: notifications,
		logger:        logger,
	}
}

// CalculatePrice computes a cost breakdown for an RFQ without persisting
// anything. Used for the planning price preview and margin recalculation.
func (s *QuotationService) CalculatePrice(ctx context.Context, req *domain.CalculatePriceRequest) (*CostBreakdown, error) {
	rfqID, err := uuid.Parse(req.RFQID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid rfqId", ErrInvalidInput)
	}

	rfq, err := s.rfqService.GetByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}

	return s.pricing.BreakdownForRFQ(ctx, rfq, req.ProfitMargin)
}

// CreateFromRFQ turns a received RFQ into a priced, sent quotation.
// The quotation row, its item snapshot and the RFQ's move to QUOTED are
// committed together.
func (s *QuotationService) CreateFromRFQ(ctx context.Context, req *domain.CreateQuotationRequest) (*domain.Quotation, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	rfqID, err := uuid.Parse(req.RFQID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid rfqId", ErrInvalidInput)
	}

	rfq, err := s.rfqService.GetByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status != domain.RFQStatusReceived {
		return nil, fmt.Errorf("%w: rfq must be received by planning before quoting (status %s)", ErrConflict, rfq.Status)
	}

	if _, err := s.repo.GetLiveByRFQID(ctx, rfqID); err == nil {
		return nil, ErrQuotationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	breakdown, err := s.pricing.BreakdownForRFQ(ctx, rfq, req.ProfitMargin)
	if err != nil {
		return nil, err
	}

	validUntil := time.Now().UTC().AddDate(0, 0, s.pricingCfg.QuotationValidityDays)
	if req.ValidUntil != "" {
		parsed, err := time.Parse("2006-01-02", req.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("%w: validUntil must be YYYY-MM-DD", ErrInvalidInput)
		}
		validUntil = parsed
	}

	quotationNumber, err := s.numbers.GenerateQuotationNumber(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.QuotationItem, 0, len(rfq.Details))
	for _, detail := range rfq.Details {
		unitPrice := s.pricing.UnitPriceFor(detail.Product, req.ProfitMargin)
		name := ""
		if detail.Product != nil {
			name = detail.Product.Name
		}
		items = append(items, domain.QuotationItem{
			ProductID:   detail.ProductID,
			ProductName: name,
			Quantity:    detail.Quantity,
			Unit:        detail.Unit,
			UnitPrice:   unitPrice,
			Subtotal:    unitPrice * float64(detail.Quantity),
		})
	}

	now := time.Now().UTC()
	quotation := &domain.Quotation{
		QuotationNumber:    quotationNumber,
		RFQID:              rfq.ID,
		CustomerID:         rfq.CustomerID,
		CreatedByID:        userCtx.UserID,
		Status:             domain.QuotationStatusSent,
		MaterialCost:       breakdown.MaterialCost,
		ProcessingCost:     breakdown.ProcessingCost,
		FinishingCost:      breakdown.FinishingCost,
		ProfitMargin:       breakdown.ProfitMargin,
		TotalAmount:        breakdown.TotalAmount,
		Degraded:           breakdown.Degraded,
		ValidUntil:         validUntil,
		SentAt:             &now,
		CapacityCheckNotes: req.CapacityCheckNotes,
		Items:              items,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quotation).Error; err != nil {
			return err
		}
		return s.rfqService.MarkQuoted(ctx, tx, rfq)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	s.activities.Record(ctx, domain.ActivityTargetQuotation, quotation.ID,
		"Quotation sent", fmt.Sprintf("%s priced at %.0f for %s", quotationNumber, quotation.TotalAmount, rfq.RFQNumber))
	s.notifications.NotifyCustomer(ctx, rfq.CustomerID,
		"Quotation ready",
		fmt.Sprintf("Quotation %s for request %s is ready for review", quotationNumber, rfq.RFQNumber),
		domain.ActivityTargetQuotation, quotation.ID)
	s.logger.Info("quotation created",
		zap.String("quotation_number", quotationNumber),
		zap.String("rfq_number", rfq.RFQNumber),
		zap.Float64("total", quotation.TotalAmount),
		zap.Bool("degraded", quotation.Degraded))

	return s.repo.GetByID(ctx, quotation.ID)
}

// GetByID loads a quotation, enforcing customer ownership
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	quotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.CanReadCustomer(quotation.CustomerID) {
		return nil, ErrPermissionDenied
	}
	return quotation, nil
}

// List returns quotations matching the filters, customer-scoped for
// customer callers.
func (s *QuotationService) List(ctx context.Context, filters repository.QuotationFilters, sort repository.SortConfig, page, pageSize int) ([]domain.Quotation, int64, error) {
	return s.repo.List(ctx, filters, sort, page, pageSize)
}

// Approve accepts a quotation on behalf of its customer and creates the
// sales order in the same transaction. Calling Approve again on an already
// approved quotation returns the existing order, so retries are safe.
func (s *QuotationService) Approve(ctx context.Context, id uuid.UUID) (*domain.Quotation, *domain.Order, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, nil, ErrUnauthorized
	}

	quotation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !userCtx.OwnsCustomer(quotation.CustomerID) {
		return nil, nil, ErrPermissionDenied
	}

	if quotation.Status == domain.QuotationStatusApproved {
		order, err := s.orderRepo.GetByQuotationID(ctx, quotation.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("approved quotation has no order: %w", err)
		}
		return quotation, order, nil
	}

	if time.Now().UTC().After(quotation.ValidUntil) {
		// Expiry is applied lazily here as well as by the background sweep
		if quotation.Status.CanTransitionTo(domain.QuotationStatusExpired) {
			quotation.Status = domain.QuotationStatusExpired
			if err := s.repo.Update(ctx, quotation); err != nil {
				s.logger.Warn("failed to mark quotation expired", zap.Error(err))
			}
		}
		return nil, nil, ErrQuotationExpired
	}

	if !quotation.Status.CanTransitionTo(domain.QuotationStatusApproved) {
		return nil, nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, quotation.Status, domain.QuotationStatusApproved)
	}

	rfq, err := s.rfqService.GetByID(ctx, quotation.RFQID)
	if err != nil {
		return nil, nil, err
	}

	orderNumber, err := s.numbers.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, nil, err
	}

	order := buildOrder(orderNumber, quotation, rfq)
	now := time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Quotation{}).
			Where("id = ? AND status = ?", quotation.ID, domain.QuotationStatusSent).
			Updates(map[string]interface{}{
				"status":     domain.QuotationStatusApproved,
				"decided_at": now,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if rfq.Status.CanTransitionTo(domain.RFQStatusApproved) {
			return tx.Model(&domain.RFQ{}).
				Where("id = ?", rfq.ID).
				Updates(map[string]interface{}{
					"status":     domain.RFQStatusApproved,
					"updated_at": now,
				}).Error
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to approve quotation: %w", err)
	}

	s.activities.Record(ctx, domain.ActivityTargetQuotation, quotation.ID,
		"Quotation approved", fmt.Sprintf("%s accepted, order %s created", quotation.QuotationNumber, orderNumber))
	s.notifications.NotifyRole(ctx, domain.RoleSaleStaff,
		"Quotation accepted",
		fmt.Sprintf("%s was accepted by the customer, order %s awaits confirmation", quotation.QuotationNumber, orderNumber),
		domain.ActivityTargetOrder, order.ID)
	s.logger.Info("quotation approved",
		zap.String("quotation_number", quotation.QuotationNumber),
		zap.String("order_number", orderNumber))

	approved, err := s.repo.GetByID(ctx, quotation.ID)
	if err != nil {
		return nil, nil, err
	}
	created, err := s.orderRepo.GetByQuotationID(ctx, quotation.ID)
	if err != nil {
		return nil, nil, err
	}
	return approved, created, nil
}

// Reject declines a quotation. Terminal: no order is ever created from a
// rejected quotation, and the parent RFQ moves to REJECTED.
func (s *QuotationService) Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.Quotation, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	quotation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !userCtx.OwnsCustomer(quotation.CustomerID) {
		return nil, ErrPermissionDenied
	}

	if !quotation.Status.CanTransitionTo(domain.QuotationStatusRejected) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, quotation.Status, domain.QuotationStatusRejected)
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Quotation{}).
			Where("id = ?", quotation.ID).
			Updates(map[string]interface{}{
				"status":     domain.QuotationStatusRejected,
				"decided_at": now,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&domain.RFQ{}).
			Where("id = ? AND status = ?", quotation.RFQID, domain.RFQStatusQuoted).
			Updates(map[string]interface{}{
				"status":     domain.RFQStatusRejected,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reject quotation: %w", err)
	}

	body := fmt.Sprintf("%s rejected by the customer", quotation.QuotationNumber)
	if reason != "" {
		body = fmt.Sprintf("%s: %s", body, reason)
	}
	s.activities.Record(ctx, domain.ActivityTargetQuotation, quotation.ID, "Quotation rejected", body)
	s.notifications.NotifyRole(ctx, domain.RoleSaleStaff, "Quotation rejected", body,
		domain.ActivityTargetQuotation, quotation.ID)

	return s.repo.GetByID(ctx, quotation.ID)
}

// OrderFor returns the order created from an approved quotation. The
// endpoint exists for contract compatibility with clients that call
// approve and create-order separately; the order itself is always created
// inside Approve.
func (s *QuotationService) OrderFor(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	quotation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status != domain.QuotationStatusApproved {
		return nil, ErrQuotationNotApproved
	}
	order, err := s.orderRepo.GetByQuotationID(ctx, quotation.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// ExpireOverdue marks SENT quotations past their validity window as
// EXPIRED. Called by the background sweep.
func (s *QuotationService) ExpireOverdue(ctx context.Context) (int, error) {
	quotations, err := s.repo.ListExpirable(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to list expirable quotations: %w", err)
	}

	expired := 0
	for i := range quotations {
		quotation := &quotations[i]
		quotation.Status = domain.QuotationStatusExpired
		if err := s.repo.Update(ctx, quotation); err != nil {
			s.logger.Error("failed to expire quotation",
				zap.String("quotation_number", quotation.QuotationNumber),
				zap.Error(err))
			continue
		}
		expired++
		s.activities.Record(ctx, domain.ActivityTargetQuotation, quotation.ID,
			"Quotation expired", fmt.Sprintf("%s passed its validity date", quotation.QuotationNumber))
	}
	return expired, nil
}

// buildOrder assembles the order row created when a quotation is approved:
// details copied from the quotation items, timeline seeded with every
// production step not yet started.
func buildOrder(orderNumber string, quotation *domain.Quotation, rfq *domain.RFQ) *domain.Order {
	details := make([]domain.OrderDetail, 0, len(quotation.Items))
	for _, item := range quotation.Items {
		details = append(details, domain.OrderDetail{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	steps := domain.ProductionStepNames()
	timeline := make([]domain.ProductionStep, 0, len(steps))
	for i, name := range steps {
		timeline = append(timeline, domain.ProductionStep{
			Name:     name,
			Sequence: i + 1,
			Status:   domain.StepStatusNotStarted,
		})
	}

	return &domain.Order{
		OrderNumber:          orderNumber,
		QuotationID:          quotation.ID,
		CustomerID:           quotation.CustomerID,
		Status:               domain.OrderStatusPendingConfirmation,
		TotalAmount:          quotation.TotalAmount,
		ExpectedDeliveryDate: rfq.ExpectedDeliveryDate,
		Details:              details,
		Timeline:             timeline,
	}
}
