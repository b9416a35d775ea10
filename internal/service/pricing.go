package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/config"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CostBreakdown is the computed price structure for an RFQ
type CostBreakdown struct {
	MaterialCost   float64
	ProcessingCost float64
	FinishingCost  float64
	ProfitMargin   float64
	TotalAmount    float64
	// Degraded is true when product pricing data was missing and the
	// configured fallback costs were used. Callers must surface this
	// to the client, never hide it.
	Degraded bool
}

// ClampMargin bounds a profit margin percentage to [0, 100].
func ClampMargin(margin float64) float64 {
	if margin < 0 {
		return 0
	}
	if margin > 100 {
		return 100
	}
	return margin
}

// CalculateTotal applies the profit margin to the summed cost components.
// Margin is a percentage and is clamped to [0, 100]; a blank margin means 0.
// The result never decreases when any input increases.
func CalculateTotal(materialCost, processingCost, finishingCost, profitMargin float64) float64 {
	base := materialCost + processingCost + finishingCost
	return base + base*ClampMargin(profitMargin)/100
}

// PricingService derives cost breakdowns for RFQs from the product catalog
type PricingService struct {
	cfg         *config.PricingConfig
	productRepo *repository.ProductRepository
	logger      *zap.Logger
}

// NewPricingService creates a pricing service
func NewPricingService(
	cfg *config.PricingConfig,
	productRepo *repository.ProductRepository,
	logger *zap.Logger,
) *PricingService {
	return &PricingService{
		cfg:         cfg,
		productRepo: productRepo,
		logger:      logger,
	}
}

// BreakdownForRFQ computes the cost structure for an RFQ's detail lines.
//
// Material cost sums base price by quantity, processing cost is weight
// driven at the configured rate per kg, finishing cost is a configured
// percentage of material cost. When a product is missing or carries no
// pricing data, the configured fallback triple is used instead and the
// breakdown is flagged degraded.
func (s *PricingService) BreakdownForRFQ(ctx context.Context, rfq *domain.RFQ, profitMargin float64) (*CostBreakdown, error) {
	if len(rfq.Details) == 0 {
		return nil, ErrInvalidInput
	}
	// Clamp once so the stored margin matches the one the total was
	// computed with.
	profitMargin = ClampMargin(profitMargin)

	ids := make([]uuid.UUID, 0, len(rfq.Details))
	for _, detail := range rfq.Details {
		ids = append(ids, detail.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var materialCost, processingCost float64
	degraded := false
	for _, detail := range rfq.Details {
		product, ok := products[detail.ProductID]
		if !ok || product.BasePrice <= 0 {
			degraded = true
			continue
		}
		qty := float64(detail.Quantity)
		materialCost += product.BasePrice * qty
		processingCost += product.WeightKg * qty * s.cfg.ProcessingRatePerKg
	}

	finishingCost := materialCost * s.cfg.FinishingRatePercent / 100

	if degraded && materialCost == 0 {
		// No usable pricing data at all: quote entirely from fallback costs
		materialCost = s.cfg.FallbackMaterialCost
		processingCost = s.cfg.FallbackProcessingCost
		finishingCost = s.cfg.FallbackFinishingCost
	}

	if degraded {
		s.logger.Warn("pricing in degraded mode, product data incomplete",
			zap.String("rfq_number", rfq.RFQNumber))
	}

	return &CostBreakdown{
		MaterialCost:   materialCost,
		ProcessingCost: processingCost,
		FinishingCost:  finishingCost,
		ProfitMargin:   profitMargin,
		TotalAmount:    CalculateTotal(materialCost, processingCost, finishingCost, profitMargin),
		Degraded:       degraded,
	}, nil
}

// UnitPriceFor derives a per-unit sell price for one RFQ line under the
// given margin, used when snapshotting quotation items.
func (s *PricingService) UnitPriceFor(product *domain.Product, profitMargin float64) float64 {
	if product == nil || product.BasePrice <= 0 {
		return 0
	}
	unitCost := product.BasePrice +
		product.WeightKg*s.cfg.ProcessingRatePerKg +
		product.BasePrice*s.cfg.FinishingRatePercent/100
	return CalculateTotal(unitCost, 0, 0, profitMargin)
}
