package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key so the same models work against
// Postgres in production and the in-memory SQLite driver used in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserRole identifies which part of the quotation workflow a user acts in
type UserRole string

const (
	RoleCustomer       UserRole = "CUSTOMER"
	RoleSaleStaff      UserRole = "SALE_STAFF"
	RolePlanningDept   UserRole = "PLANNING_DEPT"
	RoleDirector       UserRole = "DIRECTOR"
	RoleAdmin          UserRole = "ADMIN"
	RoleQCStaff        UserRole = "QC_STAFF"
	RoleProductionLead UserRole = "PRODUCTION_LEAD"
	RoleWorker         UserRole = "WORKER"
)

// IsValid checks if the role is a known one
func (r UserRole) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSaleStaff, RolePlanningDept, RoleDirector,
		RoleAdmin, RoleQCStaff, RoleProductionLead, RoleWorker:
		return true
	}
	return false
}

// InternalRoles lists every staff role (everyone except customers)
func InternalRoles() []UserRole {
	return []UserRole{
		RoleSaleStaff, RolePlanningDept, RoleDirector,
		RoleAdmin, RoleQCStaff, RoleProductionLead, RoleWorker,
	}
}

// User is an account that can log in to the system
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	Name         string     `gorm:"type:varchar(200);not null" json:"name"`
	Role         UserRole   `gorm:"type:varchar(30);not null;index" json:"role"`
	CustomerID   *uuid.UUID `gorm:"type:uuid;index;column:customer_id" json:"customerId,omitempty"`
	Customer     *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
}

// Customer is a buying organization, created through self registration
type Customer struct {
	BaseModel
	CompanyName      string `gorm:"type:varchar(255);not null;column:company_name" json:"companyName"`
	ContactName      string `gorm:"type:varchar(200);not null;column:contact_name" json:"contactName"`
	Email            string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone            string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address          string `gorm:"type:varchar(500)" json:"address,omitempty"`
	TaxCode          string `gorm:"type:varchar(50);column:tax_code" json:"taxCode,omitempty"`
	ProfileCompleted bool   `gorm:"not null;default:false;column:profile_completed" json:"profileCompleted"`
}

// ProductCategory groups towel products (face, bath, hotel lines, ...)
type ProductCategory struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Description string `gorm:"type:varchar(500)" json:"description,omitempty"`
	IsActive    bool   `gorm:"not null;default:true;column:is_active" json:"isActive"`
}

// Product is a towel SKU the factory can manufacture
type Product struct {
	BaseModel
	Code        string           `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index;column:category_id" json:"categoryId,omitempty"`
	Category    *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Unit        string           `gorm:"type:varchar(20);not null;default:'cái'" json:"unit"`
	WeightKg    float64          `gorm:"not null;default:0;column:weight_kg" json:"weightKg"`
	BasePrice   float64          `gorm:"not null;default:0;column:base_price" json:"basePrice"`
	Description string           `gorm:"type:varchar(1000)" json:"description,omitempty"`
	IsActive    bool             `gorm:"not null;default:true;column:is_active" json:"isActive"`
}

// RFQStatus represents where a request for quotation is in its lifecycle
type RFQStatus string

const (
	RFQStatusDraft    RFQStatus = "DRAFT"
	RFQStatusSent     RFQStatus = "SENT"
	RFQStatusReceived RFQStatus = "RECEIVED"
	RFQStatusQuoted   RFQStatus = "QUOTED"
	RFQStatusApproved RFQStatus = "APPROVED"
	RFQStatusRejected RFQStatus = "REJECTED"
	RFQStatusCanceled RFQStatus = "CANCELED"
)

// IsValid checks if the status is a known one
func (s RFQStatus) IsValid() bool {
	switch s {
	case RFQStatusDraft, RFQStatusSent, RFQStatusReceived, RFQStatusQuoted,
		RFQStatusApproved, RFQStatusRejected, RFQStatusCanceled:
		return true
	}
	return false
}

// validRFQTransitions defines the allowed status transitions for an RFQ.
// Terminal statuses map to an empty slice.
var validRFQTransitions = map[RFQStatus][]RFQStatus{
	RFQStatusDraft:    {RFQStatusSent, RFQStatusCanceled},
	RFQStatusSent:     {RFQStatusReceived, RFQStatusCanceled},
	RFQStatusReceived: {RFQStatusQuoted},
	RFQStatusQuoted:   {RFQStatusApproved, RFQStatusRejected},
	RFQStatusApproved: {},
	RFQStatusRejected: {},
	RFQStatusCanceled: {},
}

// CanTransitionTo reports whether the RFQ status may move to target
func (s RFQStatus) CanTransitionTo(target RFQStatus) bool {
	for _, allowed := range validRFQTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s RFQStatus) IsTerminal() bool {
	return len(validRFQTransitions[s]) == 0
}

// RFQ is a customer's request for quotation
type RFQ struct {
	BaseModel
	RFQNumber            string      `gorm:"type:varchar(30);not null;uniqueIndex;column:rfq_number" json:"rfqNumber"`
	CustomerID           uuid.UUID   `gorm:"type:uuid;not null;index;column:customer_id" json:"customerId"`
	Customer             *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedByID          uuid.UUID   `gorm:"type:uuid;not null;column:created_by_id" json:"createdById"`
	Status               RFQStatus   `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	ExpectedDeliveryDate time.Time   `gorm:"not null;column:expected_delivery_date" json:"expectedDeliveryDate"`
	Notes                string      `gorm:"type:varchar(2000)" json:"notes,omitempty"`
	Details              []RFQDetail `gorm:"foreignKey:RFQID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

// RFQDetail is one requested product line on an RFQ
type RFQDetail struct {
	BaseModel
	RFQID     uuid.UUID `gorm:"type:uuid;not null;index;column:rfq_id" json:"rfqId"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;column:product_id" json:"productId"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Unit      string    `gorm:"type:varchar(20);not null;default:'cái'" json:"unit"`
	NoteColor string    `gorm:"type:varchar(100);column:note_color" json:"noteColor,omitempty"`
	Notes     string    `gorm:"type:varchar(1000)" json:"notes,omitempty"`
}

// QuotationStatus represents where a quotation is in its lifecycle
type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "PENDING"
	QuotationStatusSent     QuotationStatus = "SENT"
	QuotationStatusApproved QuotationStatus = "APPROVED"
	QuotationStatusRejected QuotationStatus = "REJECTED"
	QuotationStatusExpired  QuotationStatus = "EXPIRED"
	QuotationStatusCanceled QuotationStatus = "CANCELED"
)

// IsValid checks if the status is a known one
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusPending, QuotationStatusSent, QuotationStatusApproved,
		QuotationStatusRejected, QuotationStatusExpired, QuotationStatusCanceled:
		return true
	}
	return false
}

var validQuotationTransitions = map[QuotationStatus][]QuotationStatus{
	QuotationStatusPending: {QuotationStatusSent, QuotationStatusCanceled},
	QuotationStatusSent: {
		QuotationStatusApproved, QuotationStatusRejected,
		QuotationStatusExpired, QuotationStatusCanceled,
	},
	QuotationStatusApproved: {},
	QuotationStatusRejected: {},
	QuotationStatusExpired:  {},
	QuotationStatusCanceled: {},
}

// CanTransitionTo reports whether the quotation status may move to target
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	for _, allowed := range validQuotationTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s QuotationStatus) IsTerminal() bool {
	return len(validQuotationTransitions[s]) == 0
}

// Quotation is the factory's priced answer to an RFQ
type Quotation struct {
	BaseModel
	QuotationNumber    string          `gorm:"type:varchar(30);not null;uniqueIndex;column:quotation_number" json:"quotationNumber"`
	RFQID              uuid.UUID       `gorm:"type:uuid;not null;index;column:rfq_id" json:"rfqId"`
	RFQ                *RFQ            `gorm:"foreignKey:RFQID" json:"rfq,omitempty"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index;column:customer_id" json:"customerId"`
	CreatedByID        uuid.UUID       `gorm:"type:uuid;not null;column:created_by_id" json:"createdById"`
	Status             QuotationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	MaterialCost       float64         `gorm:"not null;default:0;column:material_cost" json:"materialCost"`
	ProcessingCost     float64         `gorm:"not null;default:0;column:processing_cost" json:"processingCost"`
	FinishingCost      float64         `gorm:"not null;default:0;column:finishing_cost" json:"finishingCost"`
	ProfitMargin       float64         `gorm:"not null;default:0;column:profit_margin" json:"profitMargin"`
	TotalAmount        float64         `gorm:"not null;default:0;column:total_amount" json:"totalAmount"`
	Degraded           bool            `gorm:"not null;default:false" json:"degraded"`
	ValidUntil         time.Time       `gorm:"not null;column:valid_until" json:"validUntil"`
	SentAt             *time.Time      `gorm:"column:sent_at" json:"sentAt,omitempty"`
	DecidedAt          *time.Time      `gorm:"column:decided_at" json:"decidedAt,omitempty"`
	CapacityCheckNotes string          `gorm:"type:varchar(2000);column:capacity_check_notes" json:"capacityCheckNotes,omitempty"`
	Items              []QuotationItem `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// QuotationItem snapshots one priced product line at quotation time
type QuotationItem struct {
	BaseModel
	QuotationID uuid.UUID `gorm:"type:uuid;not null;index;column:quotation_id" json:"quotationId"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;column:product_id" json:"productId"`
	ProductName string    `gorm:"type:varchar(255);not null;column:product_name" json:"productName"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Unit        string    `gorm:"type:varchar(20);not null;default:'cái'" json:"unit"`
	UnitPrice   float64   `gorm:"not null;default:0;column:unit_price" json:"unitPrice"`
	Subtotal    float64   `gorm:"not null;default:0" json:"subtotal"`
}

// OrderStatus represents where a sales order is in its lifecycle
type OrderStatus string

const (
	OrderStatusPendingConfirmation OrderStatus = "PENDING_CONFIRMATION"
	OrderStatusConfirmed           OrderStatus = "CONFIRMED"
	OrderStatusInProduction        OrderStatus = "IN_PRODUCTION"
	OrderStatusQualityCheck        OrderStatus = "QUALITY_CHECK"
	OrderStatusShipped             OrderStatus = "SHIPPED"
	OrderStatusCompleted           OrderStatus = "COMPLETED"
)

// IsValid checks if the status is a known one
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingConfirmation, OrderStatusConfirmed,
		OrderStatusInProduction, OrderStatusQualityCheck,
		OrderStatusShipped, OrderStatusCompleted:
		return true
	}
	return false
}

var validOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendingConfirmation: {OrderStatusConfirmed},
	OrderStatusConfirmed:           {OrderStatusInProduction},
	OrderStatusInProduction:        {OrderStatusQualityCheck},
	OrderStatusQualityCheck:        {OrderStatusShipped},
	OrderStatusShipped:             {OrderStatusCompleted},
	OrderStatusCompleted:           {},
}

// CanTransitionTo reports whether the order status may move to target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range validOrderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return len(validOrderTransitions[s]) == 0
}

// Order is a confirmed sale created from an approved quotation
type Order struct {
	BaseModel
	OrderNumber          string           `gorm:"type:varchar(30);not null;uniqueIndex;column:order_number" json:"orderNumber"`
	QuotationID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex;column:quotation_id" json:"quotationId"`
	Quotation            *Quotation       `gorm:"foreignKey:QuotationID" json:"quotation,omitempty"`
	CustomerID           uuid.UUID        `gorm:"type:uuid;not null;index;column:customer_id" json:"customerId"`
	Customer             *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status               OrderStatus      `gorm:"type:varchar(30);not null;default:'PENDING_CONFIRMATION';index" json:"status"`
	TotalAmount          float64          `gorm:"not null;default:0;column:total_amount" json:"totalAmount"`
	ExpectedDeliveryDate time.Time        `gorm:"not null;column:expected_delivery_date" json:"expectedDeliveryDate"`
	ConfirmedAt          *time.Time       `gorm:"column:confirmed_at" json:"confirmedAt,omitempty"`
	Details              []OrderDetail    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	Timeline             []ProductionStep `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"timeline,omitempty"`
}

// OrderDetail is one product line on an order, copied from the quotation
type OrderDetail struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index;column:order_id" json:"orderId"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;column:product_id" json:"productId"`
	ProductName string    `gorm:"type:varchar(255);not null;column:product_name" json:"productName"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Unit        string    `gorm:"type:varchar(20);not null;default:'cái'" json:"unit"`
	UnitPrice   float64   `gorm:"not null;default:0;column:unit_price" json:"unitPrice"`
	Subtotal    float64   `gorm:"not null;default:0" json:"subtotal"`
}

// StepStatus is the state of a single production step
type StepStatus string

const (
	StepStatusNotStarted StepStatus = "not_started"
	StepStatusProcessing StepStatus = "processing"
	StepStatusDone       StepStatus = "done"
)

// Production step names, in factory sequence
const (
	StepLabelWinding = "cuộn mác"
	StepWeaving      = "dệt"
	StepCutting      = "cắt"
	StepSewing       = "may"
	StepPackaging    = "đóng gói"
)

// ProductionStepNames returns the factory step names in order
func ProductionStepNames() []string {
	return []string{StepLabelWinding, StepWeaving, StepCutting, StepSewing, StepPackaging}
}

// ProductionStep is one stage of an order's manufacturing timeline
type ProductionStep struct {
	BaseModel
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index;column:order_id" json:"orderId"`
	Name        string     `gorm:"type:varchar(50);not null" json:"name"`
	Sequence    int        `gorm:"not null" json:"sequence"`
	Status      StepStatus `gorm:"type:varchar(20);not null;default:'not_started'" json:"status"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
}

// Activity is an audit trail entry attached to a workflow entity
type Activity struct {
	BaseModel
	TargetType  string    `gorm:"type:varchar(30);not null;index:idx_activities_target;column:target_type" json:"targetType"`
	TargetID    uuid.UUID `gorm:"type:uuid;not null;index:idx_activities_target;column:target_id" json:"targetId"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Body        string    `gorm:"type:varchar(2000)" json:"body,omitempty"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;column:creator_id" json:"creatorId"`
	CreatorName string    `gorm:"type:varchar(200);column:creator_name" json:"creatorName,omitempty"`
	OccurredAt  time.Time `gorm:"not null;column:occurred_at" json:"occurredAt"`
}

// Activity target types
const (
	ActivityTargetRFQ       = "rfq"
	ActivityTargetQuotation = "quotation"
	ActivityTargetOrder     = "order"
)

// NumberSequence tracks the last issued document number per prefix and year
type NumberSequence struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Prefix    string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_sequence_prefix_year"`
	Year      int       `gorm:"not null;uniqueIndex:idx_sequence_prefix_year"`
	LastValue int       `gorm:"not null;default:0;column:last_value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Notification is an in-app message for a user about workflow progress
type Notification struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	Title      string     `gorm:"type:varchar(255);not null" json:"title"`
	Body       string     `gorm:"type:varchar(1000)" json:"body,omitempty"`
	TargetType string     `gorm:"type:varchar(30);column:target_type" json:"targetType,omitempty"`
	TargetID   *uuid.UUID `gorm:"type:uuid;column:target_id" json:"targetId,omitempty"`
	ReadAt     *time.Time `gorm:"column:read_at" json:"readAt,omitempty"`
}
