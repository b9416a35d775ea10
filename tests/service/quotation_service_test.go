package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotationCalculatePrice(t *testing.T) {
	f := newWorkflowFixture(t)
	rfq := f.createReceivedRFQ(t)

	breakdown, err := f.quotations.CalculatePrice(f.plannerCtx, &domain.CalculatePriceRequest{
		RFQID:        rfq.ID.String(),
		ProfitMargin: 10,
	})
	require.NoError(t, err)

	// 10 towels at 100k base, 0.5kg each
	assert.InDelta(t, 1000000, breakdown.MaterialCost, 0.001)
	assert.InDelta(t, 225000, breakdown.ProcessingCost, 0.001)
	assert.InDelta(t, 100000, breakdown.FinishingCost, 0.001)
	assert.False(t, breakdown.Degraded)

	// Nothing was persisted
	var count int64
	f.db.Model(&domain.Quotation{}).Count(&count)
	assert.Zero(t, count)
}

func TestQuotationCreateFromRFQ(t *testing.T) {
	f := newWorkflowFixture(t)
	rfq := f.createReceivedRFQ(t)

	quotation, err := f.quotations.CreateFromRFQ(f.plannerCtx, &domain.CreateQuotationRequest{
		RFQID:        rfq.ID.String(),
		ProfitMargin: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("QT-%d-001", time.Now().Year()), quotation.QuotationNumber)
	assert.Equal(t, domain.QuotationStatusSent, quotation.Status)
	assert.NotNil(t, quotation.SentAt)
	assert.Equal(t, rfq.CustomerID, quotation.CustomerID)
	require.Len(t, quotation.Items, 1)
	assert.Equal(t, f.product.Name, quotation.Items[0].ProductName)
	assert.InDelta(t, quotation.Items[0].UnitPrice*10, quotation.Items[0].Subtotal, 0.001)

	// The parent RFQ has moved to QUOTED
	updated, err := f.rfqs.GetByID(f.plannerCtx, rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RFQStatusQuoted, updated.Status)
}

func TestQuotationCreateRequiresReceivedRFQ(t *testing.T) {
	f := newWorkflowFixture(t)
	rfq := f.createDraftRFQ(t, 10)

	_, err := f.quotations.CreateFromRFQ(f.plannerCtx, &domain.CreateQuotationRequest{
		RFQID:        rfq.ID.String(),
		ProfitMargin: 10,
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestQuotationCreateRejectsDuplicate(t *testing.T) {
	f := newWorkflowFixture(t)
	rfq := f.createReceivedRFQ(t)

	_, err := f.quotations.CreateFromRFQ(f.plannerCtx, &domain.CreateQuotationRequest{
		RFQID:        rfq.ID.String(),
		ProfitMargin: 10,
	})
	require.NoError(t, err)

	// The RFQ is QUOTED now so the second attempt fails the status gate
	_, err = f.quotations.CreateFromRFQ(f.plannerCtx, &domain.CreateQuotationRequest{
		RFQID:        rfq.ID.String(),
		ProfitMargin: 10,
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestQuotationApproveCreatesOrder(t *testing.T) {
	f := newWorkflowFixture(t)
	quotation := f.createSentQuotation(t, 10)

	approved, order, err := f.quotations.Approve(f.customerCtx, quotation.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.QuotationStatusApproved, approved.Status)
	assert.NotNil(t, approved.DecidedAt)

	require.NotNil(t, order)
	assert.Equal(t, fmt.Sprintf("SO-%d-0001", time.Now().Year()), order.OrderNumber)
	assert.Equal(t, domain.OrderStatusPendingConfirmation, order.Status)
	assert.Equal(t, quotation.ID, order.QuotationID)
	assert.InDelta(t, quotation.TotalAmount, order.TotalAmount, 0.001)

	// Timeline seeded with every production step, none started
	require.Len(t, order.Timeline, 5)
	for i, step := range order.Timeline {
		assert.Equal(t, domain.ProductionStepNames()[i], step.Name)
		assert.Equal(t, domain.StepStatusNotStarted, step.Status)
	}

	// The RFQ closes out as approved
	rfq, err := f.rfqs.GetByID(f.plannerCtx, quotation.RFQID)
	require.NoError(t, err)
	assert.Equal(t, domain.RFQStatusApproved, rfq.Status)
}

func TestQuotationApproveIsIdempotent(t *testing.T) {
	f := newWorkflowFixture(t)
	quotation := f.createSentQuotation(t, 10)

	_, first, err := f.quotations.Approve(f.customerCtx, quotation.ID)
	require.NoError(t, err)

	_, second, err := f.quotations.Approve(f.customerCtx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	f.db.Model(&domain.Order{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestQuotationApproveRequiresOwner(t *testing.T) {
	f := newWorkflowFixture(t)
	quotation := f.createSentQuotation(t, 10)

	_, _, err := f.quotations.Approve(f.plannerCtx, quotation.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestQuotationApproveExpired(t *testing.T) {
	f := newWorkflowFixture(t)
	quotation := f.createSentQuotation(t, 10)

	// Backdate the validity window past its end
	err := f.db.Model(&domain.Quotation{}).
		Where("id = ?", quotation.ID).
		Update("valid_until", time.Now().UTC().AddDate(0, 0, -1)).Error
	require.NoError(t, err)

	_, _, err = f.quotations.Approve(f.customerCtx, quotation.ID)
	assert.ErrorIs(t, err, service.ErrQuotationExpired)

	expired, err := f.quotations.GetByID(f.plannerCtx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusExpired, expired.Status)
}

func TestQuotationReject(t *testing.T) {
	f := newWorkflowFixture(t)
	quotation := f.createSentQuotation(t, 10)

	rejected, err := f.quotations.Reject(f.customerCtx, quotation.ID, "giá quá cao")
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusRejected, rejected.Status)
	assert.NotNil(t, rejected.DecidedAt)

	rfq, err := f.rfqs.GetByID(f.plannerCtx, quotation.RFQID)
	require.NoError(t, err)
	assert.Equal(t, domain.RFQStatusRejected, rfq.Status)

	// A rejected quotation never yields an order
	var count int64
	f.db.Model(&domain.Order{}).Count(&count)
	assert.Zero(t, count)

	_, err = f.quotations.OrderFor(f.customerCtx, quotation.ID)
	assert.ErrorIs(t, err, service.ErrQuotationNotApproved)
}

func TestQuotationOrderFor(t *testing.T) {
	f := newWorkflowFixture(t)
	quotation := f.createSentQuotation(t, 10)

	_, err := f.quotations.OrderFor(f.customerCtx, quotation.ID)
	assert.ErrorIs(t, err, service.ErrQuotationNotApproved)

	_, order, err := f.quotations.Approve(f.customerCtx, quotation.ID)
	require.NoError(t, err)

	got, err := f.quotations.OrderFor(f.customerCtx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestQuotationExpireOverdue(t *testing.T) {
	f := newWorkflowFixture(t)
	quotation := f.createSentQuotation(t, 10)

	expired, err := f.quotations.ExpireOverdue(f.plannerCtx)
	require.NoError(t, err)
	assert.Zero(t, expired)

	err = f.db.Model(&domain.Quotation{}).
		Where("id = ?", quotation.ID).
		Update("valid_until", time.Now().UTC().AddDate(0, 0, -2)).Error
	require.NoError(t, err)

	expired, err = f.quotations.ExpireOverdue(f.plannerCtx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	got, err := f.quotations.GetByID(f.plannerCtx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusExpired, got.Status)
}
