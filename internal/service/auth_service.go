package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService handles login and customer self-registration
type AuthService struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	customerRepo *repository.CustomerRepository
	tokens       *auth.TokenService
	logger       *zap.Logger
}

// NewAuthService creates an auth service
func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	customerRepo *repository.CustomerRepository,
	tokens *auth.TokenService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		db:           db,
		userRepo:     userRepo,
		customerRepo: customerRepo,
		tokens:       tokens,
		logger:       logger,
	}
}

// Login verifies credentials and issues an access token. Every failure path
// returns ErrInvalidCredentials so callers cannot probe for registered emails.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info("login rejected", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	resp := &domain.LoginResponse{
		AccessToken: token,
		UserID:      user.ID.String(),
		Email:       user.Email,
		Name:        user.Name,
		Role:        string(user.Role),
		ExpiresAt:   expiresAt.Format("2006-01-02T15:04:05Z"),
	}
	if user.CustomerID != nil {
		id := user.CustomerID.String()
		resp.CustomerID = &id
	}
	return resp, nil
}

// RegisterCustomer creates the customer organization and its login account
// in one transaction.
func (s *AuthService) RegisterCustomer(ctx context.Context, req *domain.RegisterCustomerRequest) (*domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &domain.Customer{
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Email:       email,
		Phone:       req.Phone,
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         req.ContactName,
		Role:         domain.RoleCustomer,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return err
		}
		user.CustomerID = &customer.ID
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}

	s.logger.Info("customer registered",
		zap.String("customer_id", customer.ID.String()),
		zap.String("company", customer.CompanyName))

	return s.Login(ctx, &domain.LoginRequest{Email: email, Password: req.Password})
}

// Me returns the session view for the authenticated user
func (s *AuthService) Me(ctx context.Context) (*domain.SessionDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	session := &domain.SessionDTO{
		UserID: userCtx.UserID.String(),
		Email:  userCtx.Email,
		Name:   userCtx.Name,
		Role:   string(userCtx.Role),
	}
	if userCtx.CustomerID != nil {
		id := userCtx.CustomerID.String()
		session.CustomerID = &id
	}
	return session, nil
}

// CompleteProfile fills in the customer's organization details
func (s *AuthService) CompleteProfile(ctx context.Context, req *domain.CompleteProfileRequest) (*domain.Customer, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.IsCustomer() || userCtx.CustomerID == nil {
		return nil, ErrPermissionDenied
	}

	customer, err := s.customerRepo.GetByID(ctx, *userCtx.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.ContactName != "" {
		customer.ContactName = req.ContactName
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Address != "" {
		customer.Address = req.Address
	}
	if req.TaxCode != "" {
		customer.TaxCode = req.TaxCode
	}
	customer.ProfileCompleted = true

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer profile: %w", err)
	}
	return customer, nil
}

// GetCustomer loads a customer record, enforcing ownership for customer callers
func (s *AuthService) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.CanReadCustomer(id) {
		return nil, ErrPermissionDenied
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}
