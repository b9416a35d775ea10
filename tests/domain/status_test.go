package domain_test

import (
	"testing"

	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRFQStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.RFQStatus
		to      domain.RFQStatus
		allowed bool
	}{
		{"draft to sent", domain.RFQStatusDraft, domain.RFQStatusSent, true},
		{"draft to canceled", domain.RFQStatusDraft, domain.RFQStatusCanceled, true},
		{"sent to received", domain.RFQStatusSent, domain.RFQStatusReceived, true},
		{"sent to canceled", domain.RFQStatusSent, domain.RFQStatusCanceled, true},
		{"received to quoted", domain.RFQStatusReceived, domain.RFQStatusQuoted, true},
		{"quoted to approved", domain.RFQStatusQuoted, domain.RFQStatusApproved, true},
		{"quoted to rejected", domain.RFQStatusQuoted, domain.RFQStatusRejected, true},
		{"draft to received skips sent", domain.RFQStatusDraft, domain.RFQStatusReceived, false},
		{"sent back to draft", domain.RFQStatusSent, domain.RFQStatusDraft, false},
		{"received to canceled", domain.RFQStatusReceived, domain.RFQStatusCanceled, false},
		{"approved is terminal", domain.RFQStatusApproved, domain.RFQStatusQuoted, false},
		{"rejected is terminal", domain.RFQStatusRejected, domain.RFQStatusSent, false},
		{"canceled is terminal", domain.RFQStatusCanceled, domain.RFQStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRFQStatusTerminal(t *testing.T) {
	assert.True(t, domain.RFQStatusApproved.IsTerminal())
	assert.True(t, domain.RFQStatusRejected.IsTerminal())
	assert.True(t, domain.RFQStatusCanceled.IsTerminal())
	assert.False(t, domain.RFQStatusDraft.IsTerminal())
	assert.False(t, domain.RFQStatusQuoted.IsTerminal())
}

func TestRFQStatusValidity(t *testing.T) {
	for _, s := range []domain.RFQStatus{
		domain.RFQStatusDraft, domain.RFQStatusSent, domain.RFQStatusReceived,
		domain.RFQStatusQuoted, domain.RFQStatusApproved, domain.RFQStatusRejected,
		domain.RFQStatusCanceled,
	} {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}
	assert.False(t, domain.RFQStatus("SHIPPED").IsValid())
	assert.False(t, domain.RFQStatus("").IsValid())
}

func TestQuotationStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.QuotationStatus
		to      domain.QuotationStatus
		allowed bool
	}{
		{"pending to sent", domain.QuotationStatusPending, domain.QuotationStatusSent, true},
		{"pending to canceled", domain.QuotationStatusPending, domain.QuotationStatusCanceled, true},
		{"sent to approved", domain.QuotationStatusSent, domain.QuotationStatusApproved, true},
		{"sent to rejected", domain.QuotationStatusSent, domain.QuotationStatusRejected, true},
		{"sent to expired", domain.QuotationStatusSent, domain.QuotationStatusExpired, true},
		{"sent to canceled", domain.QuotationStatusSent, domain.QuotationStatusCanceled, true},
		{"pending straight to approved", domain.QuotationStatusPending, domain.QuotationStatusApproved, false},
		{"approved is terminal", domain.QuotationStatusApproved, domain.QuotationStatusRejected, false},
		{"expired is terminal", domain.QuotationStatusExpired, domain.QuotationStatusSent, false},
		{"rejected is terminal", domain.QuotationStatusRejected, domain.QuotationStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{"pending to confirmed", domain.OrderStatusPendingConfirmation, domain.OrderStatusConfirmed, true},
		{"confirmed to in production", domain.OrderStatusConfirmed, domain.OrderStatusInProduction, true},
		{"in production to quality check", domain.OrderStatusInProduction, domain.OrderStatusQualityCheck, true},
		{"quality check to shipped", domain.OrderStatusQualityCheck, domain.OrderStatusShipped, true},
		{"shipped to completed", domain.OrderStatusShipped, domain.OrderStatusCompleted, true},
		{"pending straight to production", domain.OrderStatusPendingConfirmation, domain.OrderStatusInProduction, false},
		{"confirmed back to pending", domain.OrderStatusConfirmed, domain.OrderStatusPendingConfirmation, false},
		{"shipped skips to quality check", domain.OrderStatusShipped, domain.OrderStatusQualityCheck, false},
		{"completed is terminal", domain.OrderStatusCompleted, domain.OrderStatusShipped, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, domain.OrderStatusCompleted.IsTerminal())
	assert.False(t, domain.OrderStatusShipped.IsTerminal())
}

func TestProductionStepNamesOrder(t *testing.T) {
	steps := domain.ProductionStepNames()

	assert.Equal(t, []string{
		domain.StepLabelWinding,
		domain.StepWeaving,
		domain.StepCutting,
		domain.StepSewing,
		domain.StepPackaging,
	}, steps)
	assert.Len(t, steps, 5)
}
