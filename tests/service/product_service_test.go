package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/hateco-vn/quotation-api/internal/service"
	"github.com/hateco-vn/quotation-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newProductService(t *testing.T) (*service.ProductService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return service.NewProductService(repository.NewProductRepository(db), zap.NewNop()), db
}

func TestProductCreate(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()

	category := &domain.ProductCategory{Name: "Khăn tắm", IsActive: true}
	require.NoError(t, db.Create(category).Error)

	product, err := svc.Create(ctx, &domain.CreateProductRequest{
		Code:       "KT-70140",
		Name:       "Khăn tắm 70x140",
		CategoryID: category.ID.String(),
		WeightKg:   0.6,
		BasePrice:  120000,
	})
	require.NoError(t, err)

	assert.Equal(t, "KT-70140", product.Code)
	assert.Equal(t, "cái", product.Unit)
	assert.True(t, product.IsActive)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, category.ID, *product.CategoryID)
}

func TestProductCreateDuplicateCode(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreateProductRequest{Code: "KM-3050", Name: "Khăn mặt 30x50"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &domain.CreateProductRequest{Code: "KM-3050", Name: "Khăn mặt khác"})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestProductCreateUnknownCategory(t *testing.T) {
	svc, _ := newProductService(t)

	_, err := svc.Create(context.Background(), &domain.CreateProductRequest{
		Code:       "KT-X",
		Name:       "Khăn thử",
		CategoryID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestProductUpdate(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()

	product := testutil.CreateTestProduct(t, db, "KT-UPD", 100000, 0.5)

	newPrice := 110000.0
	hidden := false
	updated, err := svc.Update(ctx, product.ID, &domain.UpdateProductRequest{
		BasePrice: &newPrice,
		IsActive:  &hidden,
	})
	require.NoError(t, err)
	assert.InDelta(t, 110000, updated.BasePrice, 0.001)
	assert.False(t, updated.IsActive)

	_, err = svc.Update(ctx, uuid.New(), &domain.UpdateProductRequest{})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProductListHidesInactive(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()

	testutil.CreateTestProduct(t, db, "KT-A", 100000, 0.5)
	hidden := testutil.CreateTestProduct(t, db, "KT-B", 100000, 0.5)
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)

	_, total, err := svc.List(ctx, repository.ProductFilters{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = svc.List(ctx, repository.ProductFilters{IncludeHidden: true}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestProductListSearch(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()

	testutil.CreateTestProduct(t, db, "KT-BATH", 100000, 0.5)
	testutil.CreateTestProduct(t, db, "KM-FACE", 30000, 0.1)

	products, total, err := svc.List(ctx, repository.ProductFilters{Search: "bath"}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "KT-BATH", products[0].Code)
}
