package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"gorm.io/gorm"
)

// QuotationFilters narrows a quotation list query
type QuotationFilters struct {
	Status     *domain.QuotationStatus
	CustomerID *uuid.UUID
	RFQID      *uuid.UUID
}

var quotationSortFields = map[string]string{
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
	"quotationNumber": "quotation_number",
	"status":          "status",
	"totalAmount":     "total_amount",
	"validUntil":      "valid_until",
}

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).
		Preload("RFQ").
		Preload("Items").
		Where("id = ?", id).
		First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// GetLiveByRFQID returns the non-terminal quotation for an RFQ, if any.
// Canceled, rejected and expired quotations do not block re-quoting.
func (r *QuotationRepository) GetLiveByRFQID(ctx context.Context, rfqID uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND status IN ?", rfqID, []domain.QuotationStatus{
			domain.QuotationStatusPending,
			domain.QuotationStatusSent,
			domain.QuotationStatusApproved,
		}).
		First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepository) Update(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Save(quotation).Error
}

func (r *QuotationRepository) List(ctx context.Context, filters QuotationFilters, sort SortConfig, page, pageSize int) ([]domain.Quotation, int64, error) {
	var quotations []domain.Quotation
	var total int64

	page, pageSize = NormalizePaging(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Quotation{}).
		Preload("RFQ").
		Preload("Items")

	query = ApplyCustomerScope(ctx, query)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.RFQID != nil {
		query = query.Where("rfq_id = ?", *filters.RFQID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order(BuildOrderClause(sort, quotationSortFields, "created_at")).
		Offset(offset).Limit(pageSize).
		Find(&quotations).Error

	return quotations, total, err
}

// ListExpirable returns SENT quotations whose validity window has passed
func (r *QuotationRepository) ListExpirable(ctx context.Context, now time.Time) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Where("status = ? AND valid_until < ?", domain.QuotationStatusSent, now).
		Find(&quotations).Error
	return quotations, err
}

// CountByStatus groups quotation counts per status for the dashboard
func (r *QuotationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, &domain.Quotation{})
}
