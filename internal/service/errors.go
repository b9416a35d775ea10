package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when login fails, without revealing which part was wrong
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an email that already has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidTransition is returned when a status change is not allowed by the lifecycle
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrQuotationExists is returned when an RFQ already has a live quotation
	ErrQuotationExists = errors.New("rfq already has a live quotation")

	// ErrQuotationExpired is returned when acting on a quotation past its validity window
	ErrQuotationExpired = errors.New("quotation has expired")

	// ErrQuotationNotApproved is returned when requesting the order of a quotation that was never approved
	ErrQuotationNotApproved = errors.New("quotation is not approved")
)
