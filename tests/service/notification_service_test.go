package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/hateco-vn/quotation-api/internal/service"
	"github.com/hateco-vn/quotation-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newNotificationService(t *testing.T) (*service.NotificationService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop())
	return svc, db
}

func TestNotifyUserAndMarkRead(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, domain.RoleSaleStaff, nil)

	svc.NotifyUser(ctx, user.ID, "Quotation accepted", "QT-2026-001 was accepted",
		domain.ActivityTargetQuotation, uuid.New())

	list, err := svc.ListForUser(ctx, user.ID, true, 50)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Quotation accepted", list[0].Title)
	assert.Nil(t, list[0].ReadAt)

	count, err := svc.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.MarkRead(ctx, list[0].ID, user.ID))

	count, err = svc.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	unread, err := svc.ListForUser(ctx, user.ID, true, 50)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	svc, db := newNotificationService(t)
	user := testutil.CreateTestUser(t, db, domain.RoleSaleStaff, nil)

	err := svc.MarkRead(context.Background(), uuid.New(), user.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMarkReadOtherUsersNotification(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, domain.RoleSaleStaff, nil)
	intruder := testutil.CreateTestUser(t, db, domain.RoleWorker, nil)

	svc.NotifyUser(ctx, owner.ID, "Private", "", "", uuid.Nil)
	list, err := svc.ListForUser(ctx, owner.ID, false, 50)
	require.NoError(t, err)
	require.Len(t, list, 1)

	err = svc.MarkRead(ctx, list[0].ID, intruder.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestNotifyRoleFansOut(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()

	planners := []*domain.User{
		testutil.CreateTestUser(t, db, domain.RolePlanningDept, nil),
		testutil.CreateTestUser(t, db, domain.RolePlanningDept, nil),
	}
	sale := testutil.CreateTestUser(t, db, domain.RoleSaleStaff, nil)

	svc.NotifyRole(ctx, domain.RolePlanningDept, "New RFQ to review", "RFQ-2026-001",
		domain.ActivityTargetRFQ, uuid.New())

	for _, planner := range planners {
		count, err := svc.CountUnread(ctx, planner.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	}

	count, err := svc.CountUnread(ctx, sale.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAllRead(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, domain.RoleDirector, nil)

	for i := 0; i < 3; i++ {
		svc.NotifyUser(ctx, user.ID, "Update", "", "", uuid.Nil)
	}

	require.NoError(t, svc.MarkAllRead(ctx, user.ID))

	count, err := svc.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
