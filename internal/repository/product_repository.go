package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"gorm.io/gorm"
)

// ProductFilters narrows a product list query
type ProductFilters struct {
	CategoryID    *uuid.UUID
	Search        string
	IncludeHidden bool
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByIDs loads several products at once, keyed by ID. Missing IDs are
// simply absent from the result map.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID]*domain.Product, len(products))
	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) List(ctx context.Context, filters ProductFilters, page, pageSize int) ([]domain.Product, int64, error) {
	var products []domain.Product
	var total int64

	page, pageSize = NormalizePaging(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Product{}).Preload("Category")
	if !filters.IncludeHidden {
		query = query.Where("is_active = ?", true)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Search != "" {
		searchPattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("code ASC").Find(&products).Error

	return products, total, err
}

func (r *ProductRepository) ListCategories(ctx context.Context) ([]domain.ProductCategory, error) {
	var categories []domain.ProductCategory
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *ProductRepository) CreateCategory(ctx context.Context, category *domain.ProductCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *ProductRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.ProductCategory, error) {
	var category domain.ProductCategory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}
