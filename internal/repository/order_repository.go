package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"gorm.io/gorm"
)

// OrderFilters narrows an order list query
type OrderFilters struct {
	Status     *domain.OrderStatus
	CustomerID *uuid.UUID
}

var orderSortFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"orderNumber": "order_number",
	"status":      "status",
	"totalAmount": "total_amount",
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Quotation").
		Preload("Customer").
		Preload("Details").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByQuotationID returns the order created from a quotation, if any
func (r *OrderRepository) GetByQuotationID(ctx context.Context, quotationID uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("quotation_id = ?", quotationID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// UpdateStatus moves an order to a new status
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

// UpdateStep persists a single production step
func (r *OrderRepository) UpdateStep(ctx context.Context, step *domain.ProductionStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}

func (r *OrderRepository) List(ctx context.Context, filters OrderFilters, sort SortConfig, page, pageSize int) ([]domain.Order, int64, error) {
	var orders []domain.Order
	var total int64

	page, pageSize = NormalizePaging(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Order{}).
		Preload("Customer").
		Preload("Details").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		})

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
		Order(BuildOrderClause(sort, orderSortFields, "created_at")).
		Offset(offset).Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

// CountByStatus groups order counts per status for the dashboard
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, &domain.Order{})
}

// SumOpenValue totals the amount of orders that are not yet completed
func (r *OrderRepository) SumOpenValue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("status <> ?", domain.OrderStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
