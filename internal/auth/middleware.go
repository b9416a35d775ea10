package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hateco-vn/quotation-api/internal/domain"
	"go.uber.org/zap"
)

// Middleware provides HTTP authentication and authorization
type Middleware struct {
	tokens *TokenService
	logger *zap.Logger
}

// NewMiddleware creates an auth middleware
func NewMiddleware(tokens *TokenService, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, logger: logger}
}

// Authenticate validates the bearer token and injects the user context.
// Requests without a valid token get 401 before reaching any handler.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.respondUnauthorized(w, "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.respondUnauthorized(w, "Invalid authorization header format")
			return
		}

		userCtx, err := m.tokens.Validate(parts[1])
		if err != nil {
			m.logger.Debug("Token validation failed",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			if err == ErrExpiredToken {
				m.respondUnauthorized(w, "Token expired")
				return
			}
			m.respondUnauthorized(w, "Invalid token")
			return
		}

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole restricts a route to users having one of the given roles
func (m *Middleware) RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				m.respondUnauthorized(w, "Authentication required")
				return
			}
			if !userCtx.HasAnyRole(roles...) {
				m.logger.Warn("Access denied",
					zap.String("path", r.URL.Path),
					zap.String("user_id", userCtx.UserID.String()),
					zap.String("role", string(userCtx.Role)),
				)
				m.respondForbidden(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireInternal restricts a route to factory staff (any non-customer role)
func (m *Middleware) RequireInternal(next http.Handler) http.Handler {
	return m.RequireRole(domain.InternalRoles()...)(next)
}

func (m *Middleware) respondUnauthorized(w http.ResponseWriter, detail string) {
	m.respondError(w, &domain.APIError{
		Type:   domain.ErrorTypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: detail,
	})
}

func (m *Middleware) respondForbidden(w http.ResponseWriter, detail string) {
	m.respondError(w, &domain.APIError{
		Type:   domain.ErrorTypeForbidden,
		Title:  "Forbidden",
		Status: http.StatusForbidden,
		Detail: detail,
	})
}

func (m *Middleware) respondError(w http.ResponseWriter, apiErr *domain.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		m.logger.Error("Failed to encode error response", zap.Error(err))
	}
}
