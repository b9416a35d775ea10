package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"go.uber.org/zap"
)

// ActivityService records the audit trail of workflow events
type ActivityService struct {
	repo   *repository.ActivityRepository
	logger *zap.Logger
}

// NewActivityService creates an activity service
func NewActivityService(repo *repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, logger: logger}
}

// Record writes one audit entry for the current user. Failures are logged
// and swallowed: the audit trail must never break the workflow it records.
func (s *ActivityService) Record(ctx context.Context, targetType string, targetID uuid.UUID, title, body string) {
	activity := &domain.Activity{
		TargetType: targetType,
		TargetID:   targetID,
		Title:      title,
		Body:       body,
		OccurredAt: time.Now().UTC(),
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		activity.CreatorID = userCtx.UserID
		activity.CreatorName = userCtx.Name
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		s.logger.Error("failed to record activity",
			zap.String("target_type", targetType),
			zap.String("target_id", targetID.String()),
			zap.String("title", title),
			zap.Error(err))
	}
}

// ListByTarget returns the audit trail for one entity
func (s *ActivityService) ListByTarget(ctx context.Context, targetType string, targetID uuid.UUID, limit int) ([]domain.Activity, error) {
	return s.repo.ListByTarget(ctx, targetType, targetID, limit)
}

// ListRecent returns the latest activities across the workflow
func (s *ActivityService) ListRecent(ctx context.Context, limit int) ([]domain.Activity, error) {
	return s.repo.ListRecent(ctx, limit)
}
