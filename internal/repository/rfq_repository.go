package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"gorm.io/gorm"
)

// RFQFilters narrows an RFQ list query
type RFQFilters struct {
	Status     *domain.RFQStatus
	CustomerID *uuid.UUID
}

// rfqSortFields maps API sort field names to database columns
var rfqSortFields = map[string]string{
	"createdAt":            "created_at",
	"updatedAt":            "updated_at",
	"rfqNumber":            "rfq_number",
	"status":               "status",
	"expectedDeliveryDate": "expected_delivery_date",
}

type RFQRepository struct {
	db *gorm.DB
}

func NewRFQRepository(db *gorm.DB) *RFQRepository {
	return &RFQRepository{db: db}
}

func (r *RFQRepository) Create(ctx context.Context, rfq *domain.RFQ) error {
	return r.db.WithContext(ctx).Create(rfq).Error
}

func (r *RFQRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RFQ, error) {
	var rfq domain.RFQ
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Details").
		Preload("Details.Product").
		Where("id = ?", id).
		First(&rfq).Error
	if err != nil {
		return nil, err
	}
	return &rfq, nil
}

func (r *RFQRepository) Update(ctx context.Context, rfq *domain.RFQ) error {
	return r.db.WithContext(ctx).Save(rfq).Error
}

// UpdateStatus moves an RFQ to a new status without touching other columns
func (r *RFQRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RFQStatus) error {
	return r.db.WithContext(ctx).Model(&domain.RFQ{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *RFQRepository) List(ctx context.Context, filters RFQFilters, sort SortConfig, page, pageSize int) ([]domain.RFQ, int64, error) {
	var rfqs []domain.RFQ
	var total int64

	page, pageSize = NormalizePaging(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.RFQ{}).
		Preload("Customer").
		Preload("Details").
		Preload("Details.Product")

	query = ApplyCustomerScope(ctx, query)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order(BuildOrderClause(sort, rfqSortFields, "created_at")).
		Offset(offset).Limit(pageSize).
		Find(&rfqs).Error

	return rfqs, total, err
}

// CountByStatus groups RFQ counts per status for the dashboard
func (r *RFQRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, &domain.RFQ{})
}

type statusCount struct {
	Status string
	Count  int64
}

func countByStatus(ctx context.Context, db *gorm.DB, model interface{}) (map[string]int64, error) {
	var rows []statusCount
	err := db.WithContext(ctx).Model(model).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}
