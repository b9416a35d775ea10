package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationService delivers in-app messages about workflow progress
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

// NewNotificationService creates a notification service
func NewNotificationService(
	repo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, logger: logger}
}

// NotifyUser sends a notification to one user. Failures are logged and
// swallowed so notification delivery never blocks the workflow.
func (s *NotificationService) NotifyUser(ctx context.Context, userID uuid.UUID, title, body, targetType string, targetID uuid.UUID) {
	n := domain.Notification{
		UserID:     userID,
		Title:      title,
		Body:       body,
		TargetType: targetType,
		TargetID:   &targetID,
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		s.logger.Error("failed to create notification",
			zap.String("user_id", userID.String()),
			zap.String("title", title),
			zap.Error(err))
	}
}

// NotifyRole fans a notification out to every active user with the role
func (s *NotificationService) NotifyRole(ctx context.Context, role domain.UserRole, title, body, targetType string, targetID uuid.UUID) {
	users, err := s.userRepo.ListByRole(ctx, role)
	if err != nil {
		s.logger.Error("failed to list users for notification",
			zap.String("role", string(role)),
			zap.Error(err))
		return
	}

	notifications := make([]domain.Notification, 0, len(users))
	for _, user := range users {
		id := targetID
		notifications = append(notifications, domain.Notification{
			UserID:     user.ID,
			Title:      title,
			Body:       body,
			TargetType: targetType,
			TargetID:   &id,
		})
	}
	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		s.logger.Error("failed to create notifications",
			zap.String("role", string(role)),
			zap.Int("count", len(notifications)),
			zap.Error(err))
	}
}

// NotifyCustomer notifies the account linked to a customer organization
func (s *NotificationService) NotifyCustomer(ctx context.Context, customerID uuid.UUID, title, body, targetType string, targetID uuid.UUID) {
	user, err := s.userRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.Warn("no account found for customer notification",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		return
	}
	s.NotifyUser(ctx, user.ID, title, body, targetType, targetID)
}

// ListForUser returns a user's notifications
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, limit)
}

// CountUnread returns the unread badge count
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// MarkAllRead clears the user's unread notifications
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
