package domain

// --- Auth ---

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse carries the issued token plus the denormalized profile the
// client keeps for display
type LoginResponse struct {
	AccessToken string  `json:"accessToken"`
	UserID      string  `json:"userId"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	CustomerID  *string `json:"customerId,omitempty"`
	ExpiresAt   string  `json:"expiresAt"`
}

// RegisterCustomerRequest is the customer self-registration payload
type RegisterCustomerRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=2,max=255"`
	ContactName string `json:"contactName" validate:"required,min=2,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
}

// CompleteProfileRequest fills in the customer profile after registration
type CompleteProfileRequest struct {
	ContactName string `json:"contactName" validate:"omitempty,min=2,max=200"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	TaxCode     string `json:"taxCode" validate:"omitempty,max=50"`
}

// SessionDTO is the authenticated user view returned by /auth/me
type SessionDTO struct {
	UserID     string  `json:"userId"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	CustomerID *string `json:"customerId,omitempty"`
}

// --- RFQ ---

// CreateRFQRequest is the customer's new-RFQ payload
type CreateRFQRequest struct {
	ExpectedDeliveryDate string                   `json:"expectedDeliveryDate" validate:"required"`
	Notes                string                   `json:"notes" validate:"omitempty,max=2000"`
	Details              []CreateRFQDetailRequest `json:"details" validate:"required,min=1,dive"`
}

// CreateRFQDetailRequest is one requested line
type CreateRFQDetailRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Unit      string `json:"unit" validate:"omitempty,max=20"`
	NoteColor string `json:"noteColor" validate:"omitempty,max=100"`
	Notes     string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateRFQRequest patches a draft RFQ or moves its status
type UpdateRFQRequest struct {
	Status               *string `json:"status" validate:"omitempty"`
	ExpectedDeliveryDate *string `json:"expectedDeliveryDate" validate:"omitempty"`
	Notes                *string `json:"notes" validate:"omitempty,max=2000"`
}

// RFQDTO is the API representation of an RFQ
type RFQDTO struct {
	ID                   string         `json:"id"`
	RFQNumber            string         `json:"rfqNumber"`
	CustomerID           string         `json:"customerId"`
	CustomerName         string         `json:"customerName,omitempty"`
	Status               string         `json:"status"`
	ExpectedDeliveryDate string         `json:"expectedDeliveryDate"`
	Notes                string         `json:"notes,omitempty"`
	Details              []RFQDetailDTO `json:"details"`
	CreatedAt            string         `json:"createdAt"`
	UpdatedAt            string         `json:"updatedAt"`
}

// RFQDetailDTO is one line on an RFQ
type RFQDetailDTO struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	NoteColor   string `json:"noteColor,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// --- Quotation ---

// CalculatePriceRequest asks for a cost breakdown without persisting anything
type CalculatePriceRequest struct {
	RFQID        string  `json:"rfqId" validate:"required,uuid"`
	ProfitMargin float64 `json:"profitMargin" validate:"gte=0,lte=100"`
}

// CreateQuotationRequest turns a received RFQ into a priced quotation
type CreateQuotationRequest struct {
	RFQID              string  `json:"rfqId" validate:"required,uuid"`
	ProfitMargin       float64 `json:"profitMargin" validate:"gte=0,lte=100"`
	ValidUntil         string  `json:"validUntil" validate:"omitempty"`
	CapacityCheckNotes string  `json:"capacityCheckNotes" validate:"omitempty,max=2000"`
}

// RejectQuotationRequest carries an optional rejection reason
type RejectQuotationRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// PriceBreakdownDTO is the computed cost structure for a quotation.
// Degraded is true when product pricing data was missing and configured
// fallback costs were used instead.
type PriceBreakdownDTO struct {
	MaterialCost   float64 `json:"materialCost"`
	ProcessingCost float64 `json:"processingCost"`
	FinishingCost  float64 `json:"finishingCost"`
	ProfitMargin   float64 `json:"profitMargin"`
	TotalAmount    float64 `json:"totalAmount"`
	Degraded       bool    `json:"degraded"`
}

// QuotationDTO is the API representation of a quotation
type QuotationDTO struct {
	ID                 string             `json:"id"`
	QuotationNumber    string             `json:"quotationNumber"`
	RFQID              string             `json:"rfqId"`
	RFQNumber          string             `json:"rfqNumber,omitempty"`
	CustomerID         string             `json:"customerId"`
	Status             string             `json:"status"`
	MaterialCost       float64            `json:"materialCost"`
	ProcessingCost     float64            `json:"processingCost"`
	FinishingCost      float64            `json:"finishingCost"`
	ProfitMargin       float64            `json:"profitMargin"`
	TotalAmount        float64            `json:"totalAmount"`
	Degraded           bool               `json:"degraded"`
	ValidUntil         string             `json:"validUntil"`
	SentAt             string             `json:"sentAt,omitempty"`
	DecidedAt          string             `json:"decidedAt,omitempty"`
	CapacityCheckNotes string             `json:"capacityCheckNotes,omitempty"`
	Items              []QuotationItemDTO `json:"items"`
	CreatedAt          string             `json:"createdAt"`
	UpdatedAt          string             `json:"updatedAt"`
}

// QuotationItemDTO is one priced line
type QuotationItemDTO struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// ApproveQuotationResponse returns both sides of the atomic approve
type ApproveQuotationResponse struct {
	Quotation *QuotationDTO `json:"quotation"`
	Order     *OrderDTO     `json:"order"`
}

// --- Order ---

// OrderDTO is the API representation of a sales order
type OrderDTO struct {
	ID                   string              `json:"id"`
	OrderNumber          string              `json:"orderNumber"`
	QuotationID          string              `json:"quotationId"`
	QuotationNumber      string              `json:"quotationNumber,omitempty"`
	CustomerID           string              `json:"customerId"`
	CustomerName         string              `json:"customerName,omitempty"`
	Status               string              `json:"status"`
	TotalAmount          float64             `json:"totalAmount"`
	ExpectedDeliveryDate string              `json:"expectedDeliveryDate"`
	ConfirmedAt          string              `json:"confirmedAt,omitempty"`
	Details              []OrderDetailDTO    `json:"details"`
	Timeline             []ProductionStepDTO `json:"timeline"`
	CreatedAt            string              `json:"createdAt"`
	UpdatedAt            string              `json:"updatedAt"`
}

// OrderDetailDTO is one product line on an order
type OrderDetailDTO struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// ProductionStepDTO is one stage of the manufacturing timeline
type ProductionStepDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sequence    int    `json:"sequence"`
	Status      string `json:"status"`
	StartedAt   string `json:"startedAt,omitempty"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// --- Catalog ---

// ProductDTO is the API representation of a towel SKU
type ProductDTO struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	CategoryID   string  `json:"categoryId,omitempty"`
	CategoryName string  `json:"categoryName,omitempty"`
	Unit         string  `json:"unit"`
	WeightKg     float64 `json:"weightKg"`
	BasePrice    float64 `json:"basePrice"`
	Description  string  `json:"description,omitempty"`
	IsActive     bool    `json:"isActive"`
}

// ProductCategoryDTO is the API representation of a product category
type ProductCategoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// CreateProductRequest adds a SKU to the catalog
type CreateProductRequest struct {
	Code        string  `json:"code" validate:"required,min=2,max=50"`
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	CategoryID  string  `json:"categoryId" validate:"omitempty,uuid"`
	Unit        string  `json:"unit" validate:"omitempty,max=20"`
	WeightKg    float64 `json:"weightKg" validate:"gte=0"`
	BasePrice   float64 `json:"basePrice" validate:"gte=0"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
}

// UpdateProductRequest patches a SKU
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=255"`
	CategoryID  *string  `json:"categoryId" validate:"omitempty,uuid"`
	Unit        *string  `json:"unit" validate:"omitempty,max=20"`
	WeightKg    *float64 `json:"weightKg" validate:"omitempty,gte=0"`
	BasePrice   *float64 `json:"basePrice" validate:"omitempty,gte=0"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool    `json:"isActive"`
}

// --- Activity / notifications ---

// ActivityDTO is one audit trail entry
type ActivityDTO struct {
	ID          string `json:"id"`
	TargetType  string `json:"targetType"`
	TargetID    string `json:"targetId"`
	Title       string `json:"title"`
	Body        string `json:"body,omitempty"`
	CreatorID   string `json:"creatorId"`
	CreatorName string `json:"creatorName,omitempty"`
	OccurredAt  string `json:"occurredAt"`
}

// NotificationDTO is one in-app notification
type NotificationDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body,omitempty"`
	TargetType string `json:"targetType,omitempty"`
	TargetID   string `json:"targetId,omitempty"`
	ReadAt     string `json:"readAt,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

// --- Dashboard ---

// DashboardMetricsDTO aggregates workflow counts for internal staff
type DashboardMetricsDTO struct {
	RFQsByStatus       map[string]int64 `json:"rfqsByStatus"`
	QuotationsByStatus map[string]int64 `json:"quotationsByStatus"`
	OrdersByStatus     map[string]int64 `json:"ordersByStatus"`
	AcceptanceRate     float64          `json:"acceptanceRate"`
	OpenOrderValue     float64          `json:"openOrderValue"`
}

// --- Shared ---

// PaginatedResponse wraps list results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
