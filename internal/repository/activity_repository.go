package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByTarget returns the audit trail for one entity, newest first
func (r *ActivityRepository) ListByTarget(ctx context.Context, targetType string, targetID uuid.UUID, limit int) ([]domain.Activity, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = 50
	}
	var activities []domain.Activity
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// ListRecent returns the latest activities across all entities
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = 20
	}
	var activities []domain.Activity
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
