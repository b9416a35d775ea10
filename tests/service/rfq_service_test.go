package service_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRFQCreate(t *testing.T) {
	f := newWorkflowFixture(t)

	rfq := f.createDraftRFQ(t, 500)

	assert.Equal(t, domain.RFQStatusDraft, rfq.Status)
	assert.Equal(t, fmt.Sprintf("RFQ-%d-001", time.Now().Year()), rfq.RFQNumber)
	assert.Equal(t, f.customer.ID, rfq.CustomerID)
	assert.Equal(t, f.customerUser.ID, rfq.CreatedByID)
	require.Len(t, rfq.Details, 1)
	assert.Equal(t, 500, rfq.Details[0].Quantity)
	assert.Equal(t, "cái", rfq.Details[0].Unit)
}

func TestRFQCreateRequiresCustomer(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.rfqs.Create(f.plannerCtx, &domain.CreateRFQRequest{
		ExpectedDeliveryDate: futureDate(30),
		Details: []domain.CreateRFQDetailRequest{
			{ProductID: f.product.ID.String(), Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestRFQCreateRejectsUnknownProduct(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.rfqs.Create(f.customerCtx, &domain.CreateRFQRequest{
		ExpectedDeliveryDate: futureDate(30),
		Details: []domain.CreateRFQDetailRequest{
			{ProductID: uuid.NewString(), Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Contains(t, err.Error(), "unknown product")
}

func TestRFQCreateRejectsPastDeliveryDate(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.rfqs.Create(f.customerCtx, &domain.CreateRFQRequest{
		ExpectedDeliveryDate: "2020-01-01",
		Details: []domain.CreateRFQDetailRequest{
			{ProductID: f.product.ID.String(), Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestRFQCreateRejectsNonPositiveQuantity(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.rfqs.Create(f.customerCtx, &domain.CreateRFQRequest{
		ExpectedDeliveryDate: futureDate(30),
		Details: []domain.CreateRFQDetailRequest{
			{ProductID: f.product.ID.String(), Quantity: 0},
		},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestRFQForwardToPlanning(t *testing.T) {
	f := newWorkflowFixture(t)
	rfq := f.createDraftRFQ(t, 10)

	sent, err := f.rfqs.ForwardToPlanning(f.plannerCtx, rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RFQStatusSent, sent.Status)

	// Forwarding again is a no-op, not an error
	again, err := f.rfqs.ForwardToPlanning(f.plannerCtx, rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RFQStatusSent, again.Status)
}

func TestRFQReceiveByPlanning(t *testing.T) {
	f := newWorkflowFixture(t)
	rfq := f.createDraftRFQ(t, 10)

	// Cannot receive a draft that was never forwarded
	_, err := f.rfqs.ReceiveByPlanning(f.plannerCtx, rfq.ID)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	_, err = f.rfqs.ForwardToPlanning(f.plannerCtx, rfq.ID)
	require.NoError(t, err)

	received, err := f.rfqs.ReceiveByPlanning(f.plannerCtx, rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RFQStatusReceived, received.Status)

	again, err := f.rfqs.ReceiveByPlanning(f.plannerCtx, rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RFQStatusReceived, again.Status)
}

func TestRFQCancel(t *testing.T) {
	f := newWorkflowFixture(t)

	rfq := f.createDraftRFQ(t, 10)
	canceled, err := f.rfqs.Cancel(f.customerCtx, rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RFQStatusCanceled, canceled.Status)

	// Once planning has the request, it can no longer be withdrawn
	received := f.createReceivedRFQ(t)
	_, err = f.rfqs.Cancel(f.customerCtx, received.ID)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestRFQUpdateDraftFields(t *testing.T) {
	f := newWorkflowFixture(t)
	rfq := f.createDraftRFQ(t, 10)

	notes := "giao hàng đợt một"
	newDate := futureDate(45)
	updated, err := f.rfqs.Update(f.customerCtx, rfq.ID, &domain.UpdateRFQRequest{
		ExpectedDeliveryDate: &newDate,
		Notes:                &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, newDate, updated.ExpectedDeliveryDate.Format("2006-01-02"))
}

func TestRFQUpdateRejectsEditAfterDraft(t *testing.T) {
	f := newWorkflowFixture(t)
	rfq := f.createReceivedRFQ(t)

	notes := "too late"
	_, err := f.rfqs.Update(f.plannerCtx, rfq.ID, &domain.UpdateRFQRequest{Notes: &notes})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestRFQUpdateRejectsUnknownStatus(t *testing.T) {
	f := newWorkflowFixture(t)
	rfq := f.createDraftRFQ(t, 10)

	bogus := "SHIPPED"
	_, err := f.rfqs.Update(f.customerCtx, rfq.ID, &domain.UpdateRFQRequest{Status: &bogus})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestRFQGetByIDOwnership(t *testing.T) {
	f := newWorkflowFixture(t)
	rfq := f.createDraftRFQ(t, 10)

	// Another customer's user cannot read it
	other := otherCustomerContext(t, f)
	_, err := f.rfqs.GetByID(other, rfq.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	// Internal staff can
	got, err := f.rfqs.GetByID(f.plannerCtx, rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, rfq.ID, got.ID)

	_, err = f.rfqs.GetByID(f.plannerCtx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRFQNumbersIncrement(t *testing.T) {
	f := newWorkflowFixture(t)

	first := f.createDraftRFQ(t, 1)
	second := f.createDraftRFQ(t, 1)

	assert.True(t, strings.HasSuffix(first.RFQNumber, "-001"))
	assert.True(t, strings.HasSuffix(second.RFQNumber, "-002"))
}
