package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/mapper"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/hateco-vn/quotation-api/internal/service"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: logger}
}

// List godoc
// @Summary List orders
// @Description Paginated order list. Customers see only their own.
// @Tags Orders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(PENDING_CONFIRMATION, CONFIRMED, IN_PRODUCTION, QUALITY_CHECK, SHIPPED, COMPLETED)
// @Param customerId query string false "Filter by customer"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.OrderDTO}
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	filters := repository.OrderFilters{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.OrderStatus(status)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Unknown status filter")
			return
		}
		filters.Status = &s
	}
	if customerID := r.URL.Query().Get("customerId"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid customerId")
			return
		}
		filters.CustomerID = &id
	}

	orders, total, err := h.orderService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paginated(mapper.ToOrderDTOs(orders), total, page, pageSize))
}

// ListByCustomer godoc
// @Summary List a customer's orders
// @Tags Orders
// @Produce json
// @Param customerId path string true "Customer ID"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.OrderDTO}
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/customer/{customerId} [get]
func (h *OrderHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	page, pageSize := parsePaging(r)
	filters := repository.OrderFilters{CustomerID: &customerID}

	orders, total, err := h.orderService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paginated(mapper.ToOrderDTOs(orders), total, page, pageSize))
}

// ListMine godoc
// @Summary List the calling customer's orders
// @Tags Orders
// @Produce json
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.OrderDTO}
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/me [get]
// @Router /orders/customer [get]
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok || userCtx.CustomerID == nil {
		respondWithError(w, http.StatusUnauthorized, "No customer account in session")
		return
	}

	page, pageSize := parsePaging(r)
	filters := repository.OrderFilters{CustomerID: userCtx.CustomerID}

	orders, total, err := h.orderService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paginated(mapper.ToOrderDTOs(orders), total, page, pageSize))
}

// Get godoc
// @Summary Get order
// @Description Loads one order with details and production timeline
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToOrderDTO(order))
}

// Confirm godoc
// @Summary Confirm order
// @Description Customer confirms a pending order, releasing it to production planning
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.orderService.Confirm)
}

// StartProduction godoc
// @Summary Start production
// @Description Moves a confirmed order into production and opens the first step
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id}/start-production [post]
func (h *OrderHandler) StartProduction(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.orderService.StartProduction)
}

// CompleteStep godoc
// @Summary Complete a production step
// @Description Marks the named step done and opens the next one. Completing the last step moves the order to quality check.
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Param step path string true "Step name"
// @Success 200 {object} domain.OrderDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id}/steps/{step}/complete [post]
func (h *OrderHandler) CompleteStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	step := chi.URLParam(r, "step")
	if step == "" {
		respondWithError(w, http.StatusBadRequest, "Missing step name")
		return
	}

	order, err := h.orderService.CompleteStep(r.Context(), id, step)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToOrderDTO(order))
}

// PassQC godoc
// @Summary Pass quality check
// @Description Marks the order as shipped after QC approval
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id}/pass-qc [post]
func (h *OrderHandler) PassQC(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.orderService.PassQC)
}

// Complete godoc
// @Summary Complete order
// @Description Closes a shipped order and notifies the customer
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id}/complete [post]
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.orderService.Complete)
}

func (h *OrderHandler) lifecycle(w http.ResponseWriter, r *http.Request, op orderOp) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := op(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToOrderDTO(order))
}

type orderOp = func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
