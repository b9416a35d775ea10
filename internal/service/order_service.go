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

// OrderService tracks a sales order through confirmation, the fixed
// production steps, quality check, shipping and completion.
type OrderService struct {
	repo          *repository.OrderRepository
	activities    *ActivityService
	notifications *NotificationService
	logger        *zap.Logger
}

// NewOrderService creates an order service
func NewOrderService(
	repo *repository.OrderRepository,
	activities *ActivityService,
	notifications *NotificationService,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		repo:          repo,
		activities:    activities,
		notifications: notifications,
		logger:        logger,
	}
}

// GetByID loads an order with its timeline, enforcing customer ownership
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
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
	if !userCtx.CanReadCustomer(order.CustomerID) {
		return nil, ErrPermissionDenied
	}
	return order, nil
}

// List returns orders matching the filters, customer-scoped for customer
// callers.
func (s *OrderService) List(ctx context.Context, filters repository.OrderFilters, sort repository.SortConfig, page, pageSize int) ([]domain.Order, int64, error) {
	return s.repo.List(ctx, filters, sort, page, pageSize)
}

// Confirm lets the customer confirm a pending order, releasing it to the
// factory.
func (s *OrderService) Confirm(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !userCtx.OwnsCustomer(order.CustomerID) {
		return nil, ErrPermissionDenied
	}
	if !order.Status.CanTransitionTo(domain.OrderStatusConfirmed) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, domain.OrderStatusConfirmed)
	}

	now := time.Now().UTC()
	order.Status = domain.OrderStatusConfirmed
	order.ConfirmedAt = &now
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to confirm order: %w", err)
	}

	s.activities.Record(ctx, domain.ActivityTargetOrder, order.ID,
		"Order confirmed", fmt.Sprintf("%s confirmed by the customer", order.OrderNumber))
	s.notifications.NotifyRole(ctx, domain.RoleProductionLead,
		"Order ready for production",
		fmt.Sprintf("%s is confirmed and can enter production", order.OrderNumber),
		domain.ActivityTargetOrder, order.ID)

	return s.repo.GetByID(ctx, order.ID)
}

// StartProduction moves a confirmed order onto the factory floor and puts
// the first production step in processing.
func (s *OrderService) StartProduction(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(domain.OrderStatusInProduction) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, domain.OrderStatusInProduction)
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, domain.OrderStatusInProduction); err != nil {
		return nil, fmt.Errorf("failed to start production: %w", err)
	}

	if len(order.Timeline) > 0 {
		now := time.Now().UTC()
		first := order.Timeline[0]
		first.Status = domain.StepStatusProcessing
		first.StartedAt = &now
		if err := s.repo.UpdateStep(ctx, &first); err != nil {
			return nil, fmt.Errorf("failed to start first step: %w", err)
		}
	}

	s.activities.Record(ctx, domain.ActivityTargetOrder, order.ID,
		"Production started", fmt.Sprintf("%s entered production", order.OrderNumber))
	s.logger.Info("production started", zap.String("order_number", order.OrderNumber))

	return s.repo.GetByID(ctx, order.ID)
}

// CompleteStep marks one production step done and moves the next step to
// processing. Completing the final step sends the order to quality check.
// Steps must be completed in factory sequence.
func (s *OrderService) CompleteStep(ctx context.Context, id uuid.UUID, stepName string) (*domain.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusInProduction {
		return nil, fmt.Errorf("%w: order is not in production", ErrConflict)
	}

	var current *domain.ProductionStep
	var next *domain.ProductionStep
	for i := range order.Timeline {
		step := &order.Timeline[i]
		if step.Name == stepName {
			current = step
			if i+1 < len(order.Timeline) {
				next = &order.Timeline[i+1]
			}
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("%w: unknown production step %q", ErrInvalidInput, stepName)
	}
	if current.Status != domain.StepStatusProcessing {
		return nil, fmt.Errorf("%w: step %q is not in processing", ErrConflict, stepName)
	}

	now := time.Now().UTC()
	current.Status = domain.StepStatusDone
	current.CompletedAt = &now
	if err := s.repo.UpdateStep(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to complete step: %w", err)
	}

	if next != nil {
		next.Status = domain.StepStatusProcessing
		next.StartedAt = &now
		if err := s.repo.UpdateStep(ctx, next); err != nil {
			return nil, fmt.Errorf("failed to start next step: %w", err)
		}
	} else {
		// Last step done: the order leaves the floor for quality check
		if err := s.repo.UpdateStatus(ctx, order.ID, domain.OrderStatusQualityCheck); err != nil {
			return nil, fmt.Errorf("failed to move order to quality check: %w", err)
		}
		s.notifications.NotifyRole(ctx, domain.RoleQCStaff,
			"Order awaiting quality check",
			fmt.Sprintf("%s finished production", order.OrderNumber),
			domain.ActivityTargetOrder, order.ID)
	}

	s.activities.Record(ctx, domain.ActivityTargetOrder, order.ID,
		"Production step completed", fmt.Sprintf("%s: %s done", order.OrderNumber, stepName))

	return s.repo.GetByID(ctx, order.ID)
}

// PassQC approves the finished goods and moves the order to shipping
func (s *OrderService) PassQC(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.advance(ctx, id, domain.OrderStatusShipped, "Quality check passed")
}

// Complete closes a shipped order
func (s *OrderService) Complete(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.advance(ctx, id, domain.OrderStatusCompleted, "Order completed")
	if err != nil {
		return nil, err
	}
	s.notifications.NotifyCustomer(ctx, order.CustomerID,
		"Order completed",
		fmt.Sprintf("%s has been delivered and closed", order.OrderNumber),
		domain.ActivityTargetOrder, order.ID)
	return order, nil
}

// advance applies one status change through the transition table
func (s *OrderService) advance(ctx context.Context, id uuid.UUID, target domain.OrderStatus, title string) (*domain.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}

	from := order.Status
	if err := s.repo.UpdateStatus(ctx, order.ID, target); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.activities.Record(ctx, domain.ActivityTargetOrder, order.ID,
		title, fmt.Sprintf("%s: %s -> %s", order.OrderNumber, from, target))
	s.logger.Info("order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(from)),
		zap.String("to", string(target)))

	return s.repo.GetByID(ctx, order.ID)
}
