package service_test

import (
	"context"
	"testing"

	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/config"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/hateco-vn/quotation-api/internal/service"
	"github.com/hateco-vn/quotation-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*service.AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	tokens := auth.NewTokenService(&config.JWTConfig{
		Secret: "test-secret",
		Issuer: "quotation-api-test",
		TTL:    60,
	})
	svc := service.NewAuthService(db,
		repository.NewUserRepository(db),
		repository.NewCustomerRepository(db),
		tokens, zap.NewNop())
	return svc, db
}

func registerRequest(email string) *domain.RegisterCustomerRequest {
	return &domain.RegisterCustomerRequest{
		CompanyName: "Khăn Bông Hà Nội",
		ContactName: "Nguyễn Văn A",
		Email:       email,
		Password:    "matkhau123",
		Phone:       "0901234567",
	}
}

func TestRegisterCustomerAndLogin(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.RegisterCustomer(ctx, registerRequest("Buyer@Example.com"))
	require.NoError(t, err)

	// Email is normalized and the account is usable immediately
	assert.Equal(t, "buyer@example.com", resp.Email)
	assert.Equal(t, string(domain.RoleCustomer), resp.Role)
	assert.NotEmpty(t, resp.AccessToken)
	require.NotNil(t, resp.CustomerID)

	// The organization and login account were created together
	var customer domain.Customer
	require.NoError(t, db.First(&customer, "email = ?", "buyer@example.com").Error)
	var user domain.User
	require.NoError(t, db.First(&user, "email = ?", "buyer@example.com").Error)
	require.NotNil(t, user.CustomerID)
	assert.Equal(t, customer.ID, *user.CustomerID)

	login, err := svc.Login(ctx, &domain.LoginRequest{
		Email:    "buyer@example.com",
		Password: "matkhau123",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, login.UserID)
}

func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, registerRequest("a@example.com"))
	require.NoError(t, err)

	_, err = svc.RegisterCustomer(ctx, registerRequest("A@Example.com"))
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, registerRequest("b@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "b@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, registerRequest("c@example.com"))
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.User{}).
		Where("email = ?", "c@example.com").
		Update("is_active", false).Error)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "c@example.com", Password: "matkhau123"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestCompleteProfile(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.RegisterCustomer(ctx, registerRequest("d@example.com"))
	require.NoError(t, err)

	var user domain.User
	require.NoError(t, db.First(&user, "email = ?", resp.Email).Error)
	customerCtx := testutil.CustomerContext(&user)

	customer, err := svc.CompleteProfile(customerCtx, &domain.CompleteProfileRequest{
		Address: "KCN Phố Nối A, Hưng Yên",
		TaxCode: "0101234567",
	})
	require.NoError(t, err)
	assert.True(t, customer.ProfileCompleted)
	assert.Equal(t, "KCN Phố Nối A, Hưng Yên", customer.Address)

	// Staff accounts have no profile to complete
	staff := testutil.CreateTestUser(t, db, domain.RoleSaleStaff, nil)
	_, err = svc.CompleteProfile(testutil.StaffContext(staff, domain.RoleSaleStaff), &domain.CompleteProfileRequest{})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestMe(t *testing.T) {
	svc, db := newAuthService(t)

	customer := testutil.CreateTestCustomer(t, db, "Me Co")
	user := testutil.CreateTestUser(t, db, domain.RoleCustomer, &customer.ID)

	session, err := svc.Me(testutil.CustomerContext(user))
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), session.UserID)
	require.NotNil(t, session.CustomerID)
	assert.Equal(t, customer.ID.String(), *session.CustomerID)

	_, err = svc.Me(context.Background())
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
