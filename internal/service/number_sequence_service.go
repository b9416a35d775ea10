package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hateco-vn/quotation-api/internal/repository"
	"go.uber.org/zap"
)

// Document number prefixes. Each prefix has its own yearly sequence.
const (
	PrefixRFQ       = "RFQ"
	PrefixQuotation = "QT"
	PrefixOrder     = "SO"
)

// NumberSequenceService generates unique, formatted document numbers.
//
// Format: {PREFIX}-{YEAR}-{SEQUENCE}
// Example: RFQ-2026-001, QT-2026-014, SO-2026-0003
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(
	repo *repository.NumberSequenceRepository,
	logger *zap.Logger,
) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   repo,
		logger: logger,
	}
}

// GenerateRFQNumber issues the next RFQ number, e.g. "RFQ-2026-001".
// Called once when the customer creates the RFQ.
func (s *NumberSequenceService) GenerateRFQNumber(ctx context.Context) (string, error) {
	return s.generateNumber(ctx, PrefixRFQ, 3)
}

// GenerateQuotationNumber issues the next quotation number, e.g. "QT-2026-014"
func (s *NumberSequenceService) GenerateQuotationNumber(ctx context.Context) (string, error) {
	return s.generateNumber(ctx, PrefixQuotation, 3)
}

// GenerateOrderNumber issues the next sales order number, e.g. "SO-2026-0003".
// Order numbers are padded one digit wider than the other document families.
func (s *NumberSequenceService) GenerateOrderNumber(ctx context.Context) (string, error) {
	return s.generateNumber(ctx, PrefixOrder, 4)
}

// generateNumber issues the next number for a prefix, zero-padded to width.
func (s *NumberSequenceService) generateNumber(ctx context.Context, prefix string, width int) (string, error) {
	year := time.Now().Year()

	// Get the next sequence number (atomic operation)
	nextSeq, err := s.repo.GetNextNumber(ctx, prefix, year)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("prefix", prefix),
			zap.Int("year", year),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s number: %w", prefix, err)
	}

	number := fmt.Sprintf("%s-%d-%0*d", prefix, year, width, nextSeq)

	s.logger.Info("generated document number",
		zap.String("number", number),
		zap.String("prefix", prefix),
		zap.Int("year", year),
		zap.Int("sequence", nextSeq))

	return number, nil
}

// GetCurrentValue returns the current sequence value for a prefix/year
// without incrementing it. Returns 0 if no sequence exists.
func (s *NumberSequenceService) GetCurrentValue(ctx context.Context, prefix string, year int) (int, error) {
	return s.repo.GetCurrentValue(ctx, prefix, year)
}
