package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/hateco-vn/quotation-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRFQ(t *testing.T, db *gorm.DB, customerID uuid.UUID, number string, status domain.RFQStatus) *domain.RFQ {
	t.Helper()
	rfq := &domain.RFQ{
		RFQNumber:            number,
		CustomerID:           customerID,
		CreatedByID:          uuid.New(),
		Status:               status,
		ExpectedDeliveryDate: time.Now().UTC().AddDate(0, 1, 0),
	}
	require.NoError(t, db.Create(rfq).Error)
	return rfq
}

func TestRFQListCustomerScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRFQRepository(db)

	mine := testutil.CreateTestCustomer(t, db, "Mine Co")
	theirs := testutil.CreateTestCustomer(t, db, "Theirs Co")
	seedRFQ(t, db, mine.ID, "RFQ-2026-001", domain.RFQStatusDraft)
	seedRFQ(t, db, mine.ID, "RFQ-2026-002", domain.RFQStatusSent)
	seedRFQ(t, db, theirs.ID, "RFQ-2026-003", domain.RFQStatusDraft)

	user := testutil.CreateTestUser(t, db, domain.RoleCustomer, &mine.ID)
	ctx := testutil.CustomerContext(user)

	rfqs, total, err := repo.List(ctx, repository.RFQFilters{}, repository.DefaultSortConfig(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, rfq := range rfqs {
		assert.Equal(t, mine.ID, rfq.CustomerID)
	}

	// Staff see every customer's requests
	staff := testutil.CreateTestUser(t, db, domain.RoleSaleStaff, nil)
	_, total, err = repo.List(testutil.StaffContext(staff, domain.RoleSaleStaff),
		repository.RFQFilters{}, repository.DefaultSortConfig(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestRFQListStatusFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRFQRepository(db)

	customer := testutil.CreateTestCustomer(t, db, "Filter Co")
	seedRFQ(t, db, customer.ID, "RFQ-2026-001", domain.RFQStatusDraft)
	seedRFQ(t, db, customer.ID, "RFQ-2026-002", domain.RFQStatusSent)
	seedRFQ(t, db, customer.ID, "RFQ-2026-003", domain.RFQStatusSent)

	staff := testutil.CreateTestUser(t, db, domain.RoleAdmin, nil)
	ctx := testutil.StaffContext(staff, domain.RoleAdmin)

	sent := domain.RFQStatusSent
	rfqs, total, err := repo.List(ctx, repository.RFQFilters{Status: &sent},
		repository.DefaultSortConfig(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, rfq := range rfqs {
		assert.Equal(t, domain.RFQStatusSent, rfq.Status)
	}
}

func TestRFQListUnknownSortFieldFallsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRFQRepository(db)

	customer := testutil.CreateTestCustomer(t, db, "Sort Co")
	seedRFQ(t, db, customer.ID, "RFQ-2026-001", domain.RFQStatusDraft)
	seedRFQ(t, db, customer.ID, "RFQ-2026-002", domain.RFQStatusSent)

	staff := testutil.CreateTestUser(t, db, domain.RoleAdmin, nil)
	ctx := testutil.StaffContext(staff, domain.RoleAdmin)

	// A sort field outside the whitelist must produce a valid fallback
	// clause, not broken SQL.
	sort := repository.SortConfig{Field: "nope", Order: repository.SortOrderDesc}
	rfqs, total, err := repo.List(ctx, repository.RFQFilters{}, sort, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rfqs, 2)
}

func TestRFQListUnlinkedCustomerSeesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRFQRepository(db)

	customer := testutil.CreateTestCustomer(t, db, "Ghost Co")
	seedRFQ(t, db, customer.ID, "RFQ-2026-001", domain.RFQStatusDraft)

	// Customer-role user whose account lost its organization link
	user := testutil.CreateTestUser(t, db, domain.RoleCustomer, nil)
	ctx := testutil.CustomerContext(user)

	_, total, err := repo.List(ctx, repository.RFQFilters{}, repository.DefaultSortConfig(), 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRFQUpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRFQRepository(db)

	customer := testutil.CreateTestCustomer(t, db, "Status Co")
	rfq := seedRFQ(t, db, customer.ID, "RFQ-2026-001", domain.RFQStatusDraft)

	require.NoError(t, repo.UpdateStatus(context.Background(), rfq.ID, domain.RFQStatusSent))

	got, err := repo.GetByID(context.Background(), rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RFQStatusSent, got.Status)
	assert.Equal(t, rfq.RFQNumber, got.RFQNumber)
}

func TestRFQCountByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRFQRepository(db)

	customer := testutil.CreateTestCustomer(t, db, "Count Co")
	seedRFQ(t, db, customer.ID, "RFQ-2026-001", domain.RFQStatusDraft)
	seedRFQ(t, db, customer.ID, "RFQ-2026-002", domain.RFQStatusDraft)
	seedRFQ(t, db, customer.ID, "RFQ-2026-003", domain.RFQStatusQuoted)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts["DRAFT"])
	assert.EqualValues(t, 1, counts["QUOTED"])
}
