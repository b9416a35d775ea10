package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory SQLite database and migrates the full
// schema. Each call gets a fresh database, so tests never share state.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	err = db.AutoMigrate(
		&domain.Customer{},
		&domain.User{},
		&domain.ProductCategory{},
		&domain.Product{},
		&domain.RFQ{},
		&domain.RFQDetail{},
		&domain.Quotation{},
		&domain.QuotationItem{},
		&domain.Order{},
		&domain.OrderDetail{},
		&domain.ProductionStep{},
		&domain.Activity{},
		&domain.Notification{},
		&domain.NumberSequence{},
	)
	require.NoError(t, err, "Failed to migrate test schema")

	return db
}

// CreateTestCustomer creates a customer organization
func CreateTestCustomer(t *testing.T, db *gorm.DB, companyName string) *domain.Customer {
	t.Helper()
	customer := &domain.Customer{
		CompanyName: companyName,
		ContactName: "Test Contact",
		Email:       fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Phone:       "0901234567",
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateTestUser creates an active user with the given role. For customer
// users pass the owning customer's ID, for staff pass nil.
func CreateTestUser(t *testing.T, db *gorm.DB, role domain.UserRole, customerID *uuid.UUID) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "x",
		Name:         "Test User",
		Role:         role,
		CustomerID:   customerID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestProduct creates a towel SKU with pricing data
func CreateTestProduct(t *testing.T, db *gorm.DB, code string, basePrice, weightKg float64) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Code:      code,
		Name:      "Towel " + code,
		Unit:      "cái",
		WeightKg:  weightKg,
		BasePrice: basePrice,
		IsActive:  true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// CustomerContext returns a context authenticated as the given customer user
func CustomerContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       domain.RoleCustomer,
		CustomerID: user.CustomerID,
	})
}

// StaffContext returns a context authenticated as an internal user with the
// given role
func StaffContext(user *domain.User, role domain.UserRole) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   role,
	})
}
