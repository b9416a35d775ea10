package mapper

import (
	"time"

	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/service"
)

const timeFormat = "2006-01-02T15:04:05Z"
const dateFormat = "2006-01-02"

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeFormat)
}

// ToRFQDTO converts an RFQ to its API representation
func ToRFQDTO(rfq *domain.RFQ) domain.RFQDTO {
	dto := domain.RFQDTO{
		ID:                   rfq.ID.String(),
		RFQNumber:            rfq.RFQNumber,
		CustomerID:           rfq.CustomerID.String(),
		Status:               string(rfq.Status),
		ExpectedDeliveryDate: rfq.ExpectedDeliveryDate.Format(dateFormat),
		Notes:                rfq.Notes,
		Details:              make([]domain.RFQDetailDTO, 0, len(rfq.Details)),
		CreatedAt:            rfq.CreatedAt.Format(timeFormat),
		UpdatedAt:            rfq.UpdatedAt.Format(timeFormat),
	}
	if rfq.Customer != nil {
		dto.CustomerName = rfq.Customer.CompanyName
	}
	for _, detail := range rfq.Details {
		dto.Details = append(dto.Details, ToRFQDetailDTO(&detail))
	}
	return dto
}

// ToRFQDetailDTO converts one RFQ line
func ToRFQDetailDTO(detail *domain.RFQDetail) domain.RFQDetailDTO {
	dto := domain.RFQDetailDTO{
		ID:        detail.ID.String(),
		ProductID: detail.ProductID.String(),
		Quantity:  detail.Quantity,
		Unit:      detail.Unit,
		NoteColor: detail.NoteColor,
		Notes:     detail.Notes,
	}
	if detail.Product != nil {
		dto.ProductName = detail.Product.Name
	}
	return dto
}

// ToQuotationDTO converts a quotation to its API representation
func ToQuotationDTO(quotation *domain.Quotation) domain.QuotationDTO {
	dto := domain.QuotationDTO{
		ID:                 quotation.ID.String(),
		QuotationNumber:    quotation.QuotationNumber,
		RFQID:              quotation.RFQID.String(),
		CustomerID:         quotation.CustomerID.String(),
		Status:             string(quotation.Status),
		MaterialCost:       quotation.MaterialCost,
		ProcessingCost:     quotation.ProcessingCost,
		FinishingCost:      quotation.FinishingCost,
		ProfitMargin:       quotation.ProfitMargin,
		TotalAmount:        quotation.TotalAmount,
		Degraded:           quotation.Degraded,
		ValidUntil:         quotation.ValidUntil.Format(dateFormat),
		SentAt:             formatTimePtr(quotation.SentAt),
		DecidedAt:          formatTimePtr(quotation.DecidedAt),
		CapacityCheckNotes: quotation.CapacityCheckNotes,
		Items:              make([]domain.QuotationItemDTO, 0, len(quotation.Items)),
		CreatedAt:          quotation.CreatedAt.Format(timeFormat),
		UpdatedAt:          quotation.UpdatedAt.Format(timeFormat),
	}
	if quotation.RFQ != nil {
		dto.RFQNumber = quotation.RFQ.RFQNumber
	}
	for _, item := range quotation.Items {
		dto.Items = append(dto.Items, domain.QuotationItemDTO{
			ID:          item.ID.String(),
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return dto
}

// ToPriceBreakdownDTO converts a computed cost breakdown
func ToPriceBreakdownDTO(breakdown *service.CostBreakdown) domain.PriceBreakdownDTO {
	return domain.PriceBreakdownDTO{
		MaterialCost:   breakdown.MaterialCost,
		ProcessingCost: breakdown.ProcessingCost,
		FinishingCost:  breakdown.FinishingCost,
		ProfitMargin:   breakdown.ProfitMargin,
		TotalAmount:    breakdown.TotalAmount,
		Degraded:       breakdown.Degraded,
	}
}

// ToOrderDTO converts an order to its API representation
func ToOrderDTO(order *domain.Order) domain.OrderDTO {
	dto := domain.OrderDTO{
		ID:                   order.ID.String(),
		OrderNumber:          order.OrderNumber,
		QuotationID:          order.QuotationID.String(),
		CustomerID:           order.CustomerID.String(),
		Status:               string(order.Status),
		TotalAmount:          order.TotalAmount,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate.Format(dateFormat),
		ConfirmedAt:          formatTimePtr(order.ConfirmedAt),
		Details:              make([]domain.OrderDetailDTO, 0, len(order.Details)),
		Timeline:             make([]domain.ProductionStepDTO, 0, len(order.Timeline)),
		CreatedAt:            order.CreatedAt.Format(timeFormat),
		UpdatedAt:            order.UpdatedAt.Format(timeFormat),
	}
	if order.Quotation != nil {
		dto.QuotationNumber = order.Quotation.QuotationNumber
	}
	if order.Customer != nil {
		dto.CustomerName = order.Customer.CompanyName
	}
	for _, detail := range order.Details {
		dto.Details = append(dto.Details, domain.OrderDetailDTO{
			ID:          detail.ID.String(),
			ProductID:   detail.ProductID.String(),
			ProductName: detail.ProductName,
			Quantity:    detail.Quantity,
			Unit:        detail.Unit,
			UnitPrice:   detail.UnitPrice,
			Subtotal:    detail.Subtotal,
		})
	}
	for _, step := range order.Timeline {
		dto.Timeline = append(dto.Timeline, domain.ProductionStepDTO{
			ID:          step.ID.String(),
			Name:        step.Name,
			Sequence:    step.Sequence,
			Status:      string(step.Status),
			StartedAt:   formatTimePtr(step.StartedAt),
			CompletedAt: formatTimePtr(step.CompletedAt),
		})
	}
	return dto
}

// ToProductDTO converts a product to its API representation
func ToProductDTO(product *domain.Product) domain.ProductDTO {
	dto := domain.ProductDTO{
		ID:          product.ID.String(),
		Code:        product.Code,
		Name:        product.Name,
		Unit:        product.Unit,
		WeightKg:    product.WeightKg,
		BasePrice:   product.BasePrice,
		Description: product.Description,
		IsActive:    product.IsActive,
	}
	if product.CategoryID != nil {
		dto.CategoryID = product.CategoryID.String()
	}
	if product.Category != nil {
		dto.CategoryName = product.Category.Name
	}
	return dto
}

// ToProductCategoryDTO converts a product category
func ToProductCategoryDTO(category *domain.ProductCategory) domain.ProductCategoryDTO {
	return domain.ProductCategoryDTO{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
		IsActive:    category.IsActive,
	}
}

// ToActivityDTO converts an audit entry
func ToActivityDTO(activity *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:          activity.ID.String(),
		TargetType:  activity.TargetType,
		TargetID:    activity.TargetID.String(),
		Title:       activity.Title,
		Body:        activity.Body,
		CreatorID:   activity.CreatorID.String(),
		CreatorName: activity.CreatorName,
		OccurredAt:  activity.OccurredAt.Format(timeFormat),
	}
}

// ToNotificationDTO converts a notification
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	dto := domain.NotificationDTO{
		ID:         notification.ID.String(),
		Title:      notification.Title,
		Body:       notification.Body,
		TargetType: notification.TargetType,
		ReadAt:     formatTimePtr(notification.ReadAt),
		CreatedAt:  notification.CreatedAt.Format(timeFormat),
	}
	if notification.TargetID != nil {
		dto.TargetID = notification.TargetID.String()
	}
	return dto
}

// ToRFQDTOs converts a slice of RFQs
func ToRFQDTOs(rfqs []domain.RFQ) []domain.RFQDTO {
	dtos := make([]domain.RFQDTO, 0, len(rfqs))
	for i := range rfqs {
		dtos = append(dtos, ToRFQDTO(&rfqs[i]))
	}
	return dtos
}

// ToQuotationDTOs converts a slice of quotations
func ToQuotationDTOs(quotations []domain.Quotation) []domain.QuotationDTO {
	dtos := make([]domain.QuotationDTO, 0, len(quotations))
	for i := range quotations {
		dtos = append(dtos, ToQuotationDTO(&quotations[i]))
	}
	return dtos
}

// ToOrderDTOs converts a slice of orders
func ToOrderDTOs(orders []domain.Order) []domain.OrderDTO {
	dtos := make([]domain.OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, ToOrderDTO(&orders[i]))
	}
	return dtos
}

// ToProductDTOs converts a slice of products
func ToProductDTOs(products []domain.Product) []domain.ProductDTO {
	dtos := make([]domain.ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, ToProductDTO(&products[i]))
	}
	return dtos
}

// ToProductCategoryDTOs converts a slice of product categories
func ToProductCategoryDTOs(categories []domain.ProductCategory) []domain.ProductCategoryDTO {
	dtos := make([]domain.ProductCategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, ToProductCategoryDTO(&categories[i]))
	}
	return dtos
}

// ToActivityDTOs converts a slice of activities
func ToActivityDTOs(activities []domain.Activity) []domain.ActivityDTO {
	dtos := make([]domain.ActivityDTO, 0, len(activities))
	for i := range activities {
		dtos = append(dtos, ToActivityDTO(&activities[i]))
	}
	return dtos
}

// ToNotificationDTOs converts a slice of notifications
func ToNotificationDTOs(notifications []domain.Notification) []domain.NotificationDTO {
	dtos := make([]domain.NotificationDTO, 0, len(notifications))
	for i := range notifications {
		dtos = append(dtos, ToNotificationDTO(&notifications[i]))
	}
	return dtos
}
