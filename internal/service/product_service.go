package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductService manages the towel catalog
type ProductService struct {
	repo   *repository.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a product service
func NewProductService(repo *repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// List returns catalog products matching the filters
func (s *ProductService) List(ctx context.Context, filters repository.ProductFilters, page, pageSize int) ([]domain.Product, int64, error) {
	return s.repo.List(ctx, filters, page, pageSize)
}

// GetByID loads one product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListCategories returns the active product categories
func (s *ProductService) ListCategories(ctx context.Context) ([]domain.ProductCategory, error) {
	return s.repo.ListCategories(ctx)
}

// Create adds a SKU to the catalog
func (s *ProductService) Create(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error) {
	if _, err := s.repo.GetByCode(ctx, req.Code); err == nil {
		return nil, fmt.Errorf("%w: product code %q already exists", ErrConflict, req.Code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = "cái"
	}

	product := &domain.Product{
		Code:        req.Code,
		Name:        req.Name,
		Unit:        unit,
		WeightKg:    req.WeightKg,
		BasePrice:   req.BasePrice,
		Description: req.Description,
		IsActive:    true,
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid categoryId", ErrInvalidInput)
		}
		if _, err := s.repo.GetCategoryByID(ctx, categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: unknown category", ErrInvalidInput)
			}
			return nil, err
		}
		product.CategoryID = &categoryID
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.Info("product created", zap.String("code", product.Code))
	return s.repo.GetByID(ctx, product.ID)
}

// Update patches a SKU
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid categoryId", ErrInvalidInput)
		}
		product.CategoryID = &categoryID
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.WeightKg != nil {
		product.WeightKg = *req.WeightKg
	}
	if req.BasePrice != nil {
		product.BasePrice = *req.BasePrice
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}
