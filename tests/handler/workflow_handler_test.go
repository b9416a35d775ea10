package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/config"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/http/handler"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/hateco-vn/quotation-api/internal/service"
	"github.com/hateco-vn/quotation-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// handlerFixture mounts the RFQ and quotation handlers on a chi router with
// a swappable authenticated identity, backed by real services over SQLite.
type handlerFixture struct {
	db     *gorm.DB
	router *chi.Mux

	customer     *domain.Customer
	customerUser *domain.User
	plannerUser  *domain.User
	product      *domain.Product

	// identity is injected into each request's context
	identity *auth.UserContext
}

func newHandlerFixture(t *testing.T) *handlerFixture {
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

	rfqService := service.NewRFQService(rfqRepo, productRepo, numbers, activities, notifications, log)
	quotationService := service.NewQuotationService(db, quotationRepo, rfqService, orderRepo, pricing, pricingCfg, numbers, activities, notifications, log)

	f := &handlerFixture{db: db}

	rfqHandler := handler.NewRFQHandler(rfqService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if f.identity != nil {
				r = r.WithContext(auth.WithUserContext(r.Context(), f.identity))
			}
			next.ServeHTTP(w, r)
		})
	})
	router.Route("/v1", func(r chi.Router) {
		r.Route("/rfqs", func(r chi.Router) {
			r.Post("/", rfqHandler.Create)
			r.Get("/", rfqHandler.List)
			r.Get("/my", rfqHandler.ListMine)
			r.Get("/{id}", rfqHandler.Get)
			r.Post("/{id}/forward-to-planning", rfqHandler.ForwardToPlanning)
			r.Post("/{id}/receive-by-planning", rfqHandler.ReceiveByPlanning)
		})
		r.Route("/quotations", func(r chi.Router) {
			r.Post("/create-from-rfq", quotationHandler.CreateFromRFQ)
			r.Get("/{id}", quotationHandler.Get)
			r.Post("/{id}/approve", quotationHandler.Approve)
			r.Post("/{id}/reject", quotationHandler.Reject)
		})
	})
	f.router = router

	f.customer = testutil.CreateTestCustomer(t, db, "Handler Test Co")
	f.customerUser = testutil.CreateTestUser(t, db, domain.RoleCustomer, &f.customer.ID)
	f.plannerUser = testutil.CreateTestUser(t, db, domain.RolePlanningDept, nil)
	f.product = testutil.CreateTestProduct(t, db, "KT-H1", 100000, 0.5)

	return f
}

func testPricingConfig() *config.PricingConfig {
	return &config.PricingConfig{
		ProcessingRatePerKg:    45000,
		FinishingRatePercent:   10,
		FallbackMaterialCost:   150000,
		FallbackProcessingCost: 45000,
		FallbackFinishingCost:  50000,
		QuotationValidityDays:  15,
	}
}

func (f *handlerFixture) asCustomer() {
	f.identity = &auth.UserContext{
		UserID:     f.customerUser.ID,
		Name:       f.customerUser.Name,
		Email:      f.customerUser.Email,
		Role:       domain.RoleCustomer,
		CustomerID: f.customerUser.CustomerID,
	}
}

func (f *handlerFixture) asPlanner() {
	f.identity = &auth.UserContext{
		UserID: f.plannerUser.ID,
		Name:   f.plannerUser.Name,
		Email:  f.plannerUser.Email,
		Role:   domain.RolePlanningDept,
	}
}

func (f *handlerFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRFQEndpointsFullFlow(t *testing.T) {
	f := newHandlerFixture(t)

	f.asCustomer()
	rec := f.do(t, http.MethodPost, "/v1/rfqs", domain.CreateRFQRequest{
		ExpectedDeliveryDate: time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02"),
		Details: []domain.CreateRFQDetailRequest{
			{ProductID: f.product.ID.String(), Quantity: 200},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var rfq domain.RFQDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rfq))
	assert.Equal(t, "DRAFT", rfq.Status)
	assert.Equal(t, fmt.Sprintf("RFQ-%d-001", time.Now().Year()), rfq.RFQNumber)

	// Walk it to RECEIVED and quote it as planning
	f.asPlanner()
	rec = f.do(t, http.MethodPost, "/v1/rfqs/"+rfq.ID+"/forward-to-planning", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = f.do(t, http.MethodPost, "/v1/rfqs/"+rfq.ID+"/receive-by-planning", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/v1/quotations/create-from-rfq", domain.CreateQuotationRequest{
		RFQID:        rfq.ID,
		ProfitMargin: 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var quotation domain.QuotationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quotation))
	assert.Equal(t, "SENT", quotation.Status)
	assert.NotEmpty(t, quotation.Items)

	// Customer approves and gets the quotation plus its order back
	f.asCustomer()
	rec = f.do(t, http.MethodPost, "/v1/quotations/"+quotation.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var approve domain.ApproveQuotationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approve))
	require.NotNil(t, approve.Quotation)
	require.NotNil(t, approve.Order)
	assert.Equal(t, "APPROVED", approve.Quotation.Status)
	assert.Equal(t, "PENDING_CONFIRMATION", approve.Order.Status)
	assert.Len(t, approve.Order.Timeline, 5)
}

func TestRFQCreateValidation(t *testing.T) {
	f := newHandlerFixture(t)
	f.asCustomer()

	// Missing details fails validation before the service runs
	rec := f.do(t, http.MethodPost, "/v1/rfqs", domain.CreateRFQRequest{
		ExpectedDeliveryDate: "2026-12-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	f.db.Model(&domain.RFQ{}).Count(&count)
	assert.Zero(t, count)
}

func TestRFQGetScopedToOwner(t *testing.T) {
	f := newHandlerFixture(t)

	f.asCustomer()
	rec := f.do(t, http.MethodPost, "/v1/rfqs", domain.CreateRFQRequest{
		ExpectedDeliveryDate: time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02"),
		Details: []domain.CreateRFQDetailRequest{
			{ProductID: f.product.ID.String(), Quantity: 10},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var rfq domain.RFQDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rfq))

	other := testutil.CreateTestCustomer(t, f.db, "Other Handler Co")
	otherUser := testutil.CreateTestUser(t, f.db, domain.RoleCustomer, &other.ID)
	f.identity = &auth.UserContext{
		UserID:     otherUser.ID,
		Role:       domain.RoleCustomer,
		CustomerID: otherUser.CustomerID,
	}

	rec = f.do(t, http.MethodGet, "/v1/rfqs/"+rfq.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestQuotationRejectEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	f.asCustomer()
	rec := f.do(t, http.MethodPost, "/v1/rfqs", domain.CreateRFQRequest{
		ExpectedDeliveryDate: time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02"),
		Details: []domain.CreateRFQDetailRequest{
			{ProductID: f.product.ID.String(), Quantity: 10},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var rfq domain.RFQDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rfq))

	f.asPlanner()
	f.do(t, http.MethodPost, "/v1/rfqs/"+rfq.ID+"/forward-to-planning", nil)
	f.do(t, http.MethodPost, "/v1/rfqs/"+rfq.ID+"/receive-by-planning", nil)
	rec = f.do(t, http.MethodPost, "/v1/quotations/create-from-rfq", domain.CreateQuotationRequest{
		RFQID:        rfq.ID,
		ProfitMargin: 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var quotation domain.QuotationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quotation))

	f.asCustomer()
	rec = f.do(t, http.MethodPost, "/v1/quotations/"+quotation.ID+"/reject",
		domain.RejectQuotationRequest{Reason: "giá cao quá"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rejected domain.QuotationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rejected))
	assert.Equal(t, "REJECTED", rejected.Status)

	// Approving after rejection conflicts
	rec = f.do(t, http.MethodPost, "/v1/quotations/"+quotation.ID+"/approve", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRFQListMineEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	f.asCustomer()
	rec := f.do(t, http.MethodPost, "/v1/rfqs", domain.CreateRFQRequest{
		ExpectedDeliveryDate: time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02"),
		Details: []domain.CreateRFQDetailRequest{
			{ProductID: f.product.ID.String(), Quantity: 50},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/v1/rfqs/my", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page domain.PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page.Total)

	// Staff have no customer account behind the session
	f.asPlanner()
	rec = f.do(t, http.MethodGet, "/v1/rfqs/my", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
