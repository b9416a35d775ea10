package jobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hateco-vn/quotation-api/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubExpiryService struct {
	calls   int
	expired int
	err     error
}

func (s *stubExpiryService) ExpireOverdue(ctx context.Context) (int, error) {
	s.calls++
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.expired, s.err
}

func TestQuotationExpiryJobRun(t *testing.T) {
	svc := &stubExpiryService{expired: 3}
	job := jobs.NewQuotationExpiryJob(svc, zap.NewNop(), 0)

	job.Run()

	assert.Equal(t, 1, svc.calls)
}

func TestQuotationExpiryJobRunSwallowsError(t *testing.T) {
	svc := &stubExpiryService{err: errors.New("db gone")}
	job := jobs.NewQuotationExpiryJob(svc, zap.NewNop(), 0)

	// Run must not panic when the sweep fails, the scheduler retries later.
	job.Run()

	assert.Equal(t, 1, svc.calls)
}

func TestSchedulerAddAndRemoveJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	err := s.AddJob("sweep", "@every 1h", func() {})
	require.NoError(t, err)
	assert.Contains(t, s.GetJobNames(), "sweep")

	err = s.AddJob("sweep", "@every 1h", func() {})
	assert.Error(t, err, "duplicate job names are rejected")

	err = s.RemoveJob("sweep")
	require.NoError(t, err)
	assert.NotContains(t, s.GetJobNames(), "sweep")

	err = s.RemoveJob("sweep")
	assert.Error(t, err)
}

func TestSchedulerRejectsBadCronExpression(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	err := s.AddJob("broken", "every hour or so", func() {})
	assert.Error(t, err)
	assert.Empty(t, s.GetJobNames())
}
