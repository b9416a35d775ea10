package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	Role       domain.UserRole
	CustomerID *uuid.UUID
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRole) bool {
	return u.Role == role
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRole) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// IsCustomer reports whether the user acts on behalf of a customer account
func (u *UserContext) IsCustomer() bool {
	return u.Role == domain.RoleCustomer
}

// IsInternal reports whether the user is factory staff of any kind
func (u *UserContext) IsInternal() bool {
	return u.Role != domain.RoleCustomer
}

// IsAdmin checks if user is an administrator
func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}

// OwnsCustomer reports whether the user is the customer account for customerID.
// Internal staff are not owners; their access is decided by role checks.
func (u *UserContext) OwnsCustomer(customerID uuid.UUID) bool {
	return u.IsCustomer() && u.CustomerID != nil && *u.CustomerID == customerID
}

// CanReadCustomer reports whether the user may read data scoped to customerID.
// Customers see only their own data, staff see everything.
func (u *UserContext) CanReadCustomer(customerID uuid.UUID) bool {
	if u.IsInternal() {
		return true
	}
	return u.OwnsCustomer(customerID)
}
