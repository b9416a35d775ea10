package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QuotationExpiryJobName is the name of the quotation expiry sweep job
const QuotationExpiryJobName = "quotation_expiry"

// DefaultExpiryTimeout bounds one sweep of the expiry job
const DefaultExpiryTimeout = 2 * time.Minute

// QuotationExpiryService marks overdue quotations as expired. The interface
// lets the job call the service without importing the service package directly.
type QuotationExpiryService interface {
	// ExpireOverdue moves every SENT quotation whose validity window has
	// passed to EXPIRED. Returns the number of rows affected.
	ExpireOverdue(ctx context.Context) (int, error)
}

// QuotationExpiryJob sweeps quotations past their valid-until date.
type QuotationExpiryJob struct {
	quotations QuotationExpiryService
	logger     *zap.Logger
	timeout    time.Duration
}

// NewQuotationExpiryJob creates the expiry sweep job.
func NewQuotationExpiryJob(quotations QuotationExpiryService, logger *zap.Logger, timeout time.Duration) *QuotationExpiryJob {
	if timeout <= 0 {
		timeout = DefaultExpiryTimeout
	}
	return &QuotationExpiryJob{
		quotations: quotations,
		logger:     logger,
		timeout:    timeout,
	}
}

// Run executes one expiry sweep.
func (j *QuotationExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	expired, err := j.quotations.ExpireOverdue(ctx)
	if err != nil {
		j.logger.Error("quotation expiry sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if expired > 0 {
		j.logger.Info("quotation expiry sweep completed",
			zap.Int("expired", expired),
			zap.Duration("duration", time.Since(start)))
	}
}
