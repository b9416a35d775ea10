package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/config"
	"github.com/hateco-vn/quotation-api/internal/domain"
)

var (
	// ErrInvalidToken indicates the token failed signature or structural validation
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates the token is past its expiry
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the JWT payload issued at login
type Claims struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	CustomerID string `json:"customerId,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HMAC-signed access tokens
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a token service from config
func NewTokenService(cfg *config.JWTConfig) *TokenService {
	secret := cfg.Secret
	if secret == "" {
		// Development fallback. Load() rejects an empty secret outside development.
		secret = "dev-only-insecure-secret"
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTLDuration(),
	}
}

// Issue creates a signed token for the user. Returns the token string and
// its expiry time.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	if user.CustomerID != nil {
		claims.CustomerID = user.CustomerID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a token string and returns the user context
// it encodes.
func (s *TokenService) Validate(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role := domain.UserRole(claims.Role)
	if !role.IsValid() {
		return nil, ErrInvalidToken
	}

	userCtx := &UserContext{
		UserID: userID,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   role,
	}
	if claims.CustomerID != "" {
		customerID, err := uuid.Parse(claims.CustomerID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		userCtx.CustomerID = &customerID
	}
	return userCtx, nil
}
