package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RFQService implements the request-for-quotation lifecycle:
// DRAFT -> SENT -> RECEIVED -> QUOTED -> APPROVED/REJECTED, with
// cancellation possible before planning picks the request up.
type RFQService struct {
	repo          *repository.RFQRepository
	productRepo   *repository.ProductRepository
	numbers       *NumberSequenceService
	activities    *ActivityService
	notifications *NotificationService
	logger        *zap.Logger
}

// NewRFQService creates an RFQ service
func NewRFQService(
	repo *repository.RFQRepository,
	productRepo *repository.ProductRepository,
	numbers *NumberSequenceService,
	activities *ActivityService,
	notifications *NotificationService,
	logger *zap.Logger,
) *RFQService {
	return &RFQService{
		repo:          repo,
		productRepo:   productRepo,
		numbers:       numbers,
		activities:    activities,
		notifications: notifications,
		logger:        logger,
	}
}

// Create registers a new draft RFQ for the calling customer
func (s *RFQService) Create(ctx context.Context, req *domain.CreateRFQRequest) (*domain.RFQ, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.IsCustomer() || userCtx.CustomerID == nil {
		return nil, ErrPermissionDenied
	}

	deliveryDate, err := time.Parse("2006-01-02", req.ExpectedDeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: expectedDeliveryDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	if !deliveryDate.After(time.Now().UTC().Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("%w: expectedDeliveryDate must be in the future", ErrInvalidInput)
	}

	details := make([]domain.RFQDetail, 0, len(req.Details))
	productIDs := make([]uuid.UUID, 0, len(req.Details))
	for _, line := range req.Details {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid productId", ErrInvalidInput)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		unit := line.Unit
		if unit == "" {
			unit = "cái"
		}
		productIDs = append(productIDs, productID)
		details = append(details, domain.RFQDetail{
			ProductID: productID,
			Quantity:  line.Quantity,
			Unit:      unit,
			NoteColor: line.NoteColor,
			Notes:     line.Notes,
		})
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for _, id := range productIDs {
		if _, ok := products[id]; !ok {
			return nil, fmt.Errorf("%w: unknown product %s", ErrInvalidInput, id)
		}
	}

	rfqNumber, err := s.numbers.GenerateRFQNumber(ctx)
	if err != nil {
		return nil, err
	}

	rfq := &domain.RFQ{
		RFQNumber:            rfqNumber,
		CustomerID:           *userCtx.CustomerID,
		CreatedByID:          userCtx.UserID,
		Status:               domain.RFQStatusDraft,
		ExpectedDeliveryDate: deliveryDate,
		Notes:                req.Notes,
		Details:              details,
	}
	if err := s.repo.Create(ctx, rfq); err != nil {
		return nil, fmt.Errorf("failed to create rfq: %w", err)
	}

	s.activities.Record(ctx, domain.ActivityTargetRFQ, rfq.ID,
		"RFQ created", fmt.Sprintf("%s created as draft", rfq.RFQNumber))
	s.logger.Info("rfq created",
		zap.String("rfq_number", rfq.RFQNumber),
		zap.String("customer_id", rfq.CustomerID.String()))

	return s.repo.GetByID(ctx, rfq.ID)
}

// GetByID loads an RFQ, enforcing customer ownership
func (s *RFQService) GetByID(ctx context.Context, id uuid.UUID) (*domain.RFQ, error) {
	rfq, err := s.repo.GetByID(ctx, id)
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
	if !userCtx.CanReadCustomer(rfq.CustomerID) {
		return nil, ErrPermissionDenied
	}
	return rfq, nil
}

// List returns RFQs matching the filters. Customer callers are scoped to
// their own rows by the repository.
func (s *RFQService) List(ctx context.Context, filters repository.RFQFilters, sort repository.SortConfig, page, pageSize int) ([]domain.RFQ, int64, error) {
	return s.repo.List(ctx, filters, sort, page, pageSize)
}

// Update patches a draft RFQ's fields, or moves it through the status
// table when a status is supplied. Disallowed transitions are rejected.
func (s *RFQService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateRFQRequest) (*domain.RFQ, error) {
	rfq, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		target := domain.RFQStatus(*req.Status)
		if !target.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		return s.transition(ctx, rfq, target, "Status updated")
	}

	if rfq.Status != domain.RFQStatusDraft {
		return nil, fmt.Errorf("%w: only draft RFQs can be edited", ErrConflict)
	}
	if req.ExpectedDeliveryDate != nil {
		deliveryDate, err := time.Parse("2006-01-02", *req.ExpectedDeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: expectedDeliveryDate must be YYYY-MM-DD", ErrInvalidInput)
		}
		rfq.ExpectedDeliveryDate = deliveryDate
	}
	if req.Notes != nil {
		rfq.Notes = *req.Notes
	}
	if err := s.repo.Update(ctx, rfq); err != nil {
		return nil, fmt.Errorf("failed to update rfq: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}

// ForwardToPlanning moves a draft RFQ to SENT so planning can pick it up.
// Forwarding an RFQ that is already SENT is a no-op returning the current
// state, so double-clicks and retries cannot duplicate the transition.
func (s *RFQService) ForwardToPlanning(ctx context.Context, id uuid.UUID) (*domain.RFQ, error) {
	rfq, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rfq.Status == domain.RFQStatusSent {
		return rfq, nil
	}

	updated, err := s.transition(ctx, rfq, domain.RFQStatusSent, "Forwarded to planning")
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyRole(ctx, domain.RolePlanningDept,
		"New RFQ to review",
		fmt.Sprintf("%s is waiting for capacity check", rfq.RFQNumber),
		domain.ActivityTargetRFQ, rfq.ID)

	return updated, nil
}

// ReceiveByPlanning acknowledges a SENT RFQ. Receiving an RFQ that is
// already RECEIVED is a no-op returning the current state.
func (s *RFQService) ReceiveByPlanning(ctx context.Context, id uuid.UUID) (*domain.RFQ, error) {
	rfq, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rfq.Status == domain.RFQStatusReceived {
		return rfq, nil
	}

	return s.transition(ctx, rfq, domain.RFQStatusReceived, "Received by planning")
}

// Cancel withdraws an RFQ before planning starts quoting it
func (s *RFQService) Cancel(ctx context.Context, id uuid.UUID) (*domain.RFQ, error) {
	rfq, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, rfq, domain.RFQStatusCanceled, "RFQ canceled")
}

// MarkQuoted moves a received RFQ to QUOTED. Called by the quotation
// service inside its creation transaction.
func (s *RFQService) MarkQuoted(ctx context.Context, tx *gorm.DB, rfq *domain.RFQ) error {
	if !rfq.Status.CanTransitionTo(domain.RFQStatusQuoted) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rfq.Status, domain.RFQStatusQuoted)
	}
	return tx.Model(&domain.RFQ{}).
		Where("id = ?", rfq.ID).
		Updates(map[string]interface{}{
			"status":     domain.RFQStatusQuoted,
			"updated_at": time.Now().UTC(),
		}).Error
}

// transition applies one status change through the transition table,
// persists it, and records the audit entry.
func (s *RFQService) transition(ctx context.Context, rfq *domain.RFQ, target domain.RFQStatus, title string) (*domain.RFQ, error) {
	if !rfq.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rfq.Status, target)
	}

	from := rfq.Status
	if err := s.repo.UpdateStatus(ctx, rfq.ID, target); err != nil {
		return nil, fmt.Errorf("failed to update rfq status: %w", err)
	}

	s.activities.Record(ctx, domain.ActivityTargetRFQ, rfq.ID,
		title, fmt.Sprintf("%s: %s -> %s", rfq.RFQNumber, from, target))
	s.logger.Info("rfq status changed",
		zap.String("rfq_number", rfq.RFQNumber),
		zap.String("from", string(from)),
		zap.String("to", string(target)))

	return s.repo.GetByID(ctx, rfq.ID)
}
