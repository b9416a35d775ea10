package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/hateco-vn/quotation-api/internal/service"
	"github.com/hateco-vn/quotation-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// workflowFixture wires the full quotation workflow stack over an
// in-memory database, with one customer account and one planner account.
type workflowFixture struct {
	db *gorm.DB

	customer     *domain.Customer
	customerUser *domain.User
	plannerUser  *domain.User
	product      *domain.Product

	customerCtx context.Context
	plannerCtx  context.Context

	rfqs       *service.RFQService
	quotations *service.QuotationService
	orders     *service.OrderService
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	log := zap.NewNop()
	pricingCfg := testPricingConfig()

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	rfqRepo := repository.NewRFQRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), log)
	activities := service.NewActivityService(repository.NewActivityRepository(db), log)
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), userRepo, log)
	pricing := service.NewPricingService(pricingCfg, productRepo, log)

	rfqs := service.NewRFQService(rfqRepo, productRepo, numbers, activities, notifications, log)
	quotations := service.NewQuotationService(db, quotationRepo, rfqs, orderRepo, pricing, pricingCfg, numbers, activities, notifications, log)
	orders := service.NewOrderService(orderRepo, activities, notifications, log)

	customer := testutil.CreateTestCustomer(t, db, "Dệt May Test")
	customerUser := testutil.CreateTestUser(t, db, domain.RoleCustomer, &customer.ID)
	plannerUser := testutil.CreateTestUser(t, db, domain.RolePlanningDept, nil)
	product := testutil.CreateTestProduct(t, db, "KT-BATH-70", 100000, 0.5)

	return &workflowFixture{
		db:           db,
		customer:     customer,
		customerUser: customerUser,
		plannerUser:  plannerUser,
		product:      product,
		customerCtx:  testutil.CustomerContext(customerUser),
		plannerCtx:   testutil.StaffContext(plannerUser, domain.RolePlanningDept),
		rfqs:         rfqs,
		quotations:   quotations,
		orders:       orders,
	}
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

// createDraftRFQ creates an RFQ as the fixture customer
func (f *workflowFixture) createDraftRFQ(t *testing.T, quantity int) *domain.RFQ {
	t.Helper()
	rfq, err := f.rfqs.Create(f.customerCtx, &domain.CreateRFQRequest{
		ExpectedDeliveryDate: futureDate(30),
		Details: []domain.CreateRFQDetailRequest{
			{ProductID: f.product.ID.String(), Quantity: quantity},
		},
	})
	require.NoError(t, err)
	return rfq
}

// createReceivedRFQ walks a fresh RFQ to RECEIVED so planning can quote it
func (f *workflowFixture) createReceivedRFQ(t *testing.T) *domain.RFQ {
	t.Helper()
	rfq := f.createDraftRFQ(t, 10)

	_, err := f.rfqs.ForwardToPlanning(f.plannerCtx, rfq.ID)
	require.NoError(t, err)
	received, err := f.rfqs.ReceiveByPlanning(f.plannerCtx, rfq.ID)
	require.NoError(t, err)
	return received
}

// createSentQuotation quotes a received RFQ at the given margin
func (f *workflowFixture) createSentQuotation(t *testing.T, margin float64) *domain.Quotation {
	t.Helper()
	rfq := f.createReceivedRFQ(t)

	quotation, err := f.quotations.CreateFromRFQ(f.plannerCtx, &domain.CreateQuotationRequest{
		RFQID:        rfq.ID.String(),
		ProfitMargin: margin,
	})
	require.NoError(t, err)
	return quotation
}

// otherCustomerContext returns a context authenticated as a different
// customer organization, for ownership checks
func otherCustomerContext(t *testing.T, f *workflowFixture) context.Context {
	t.Helper()
	other := testutil.CreateTestCustomer(t, f.db, "Other Company")
	user := testutil.CreateTestUser(t, f.db, domain.RoleCustomer, &other.ID)
	return testutil.CustomerContext(user)
}

// createApprovedOrder approves a fresh quotation and returns its order
func (f *workflowFixture) createApprovedOrder(t *testing.T) *domain.Order {
	t.Helper()
	quotation := f.createSentQuotation(t, 10)

	_, order, err := f.quotations.Approve(f.customerCtx, quotation.ID)
	require.NoError(t, err)
	return order
}
