package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/mapper"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/hateco-vn/quotation-api/internal/service"
	"go.uber.org/zap"
)

type QuotationHandler struct {
	quotationService *service.QuotationService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService, logger: logger}
}

// CalculatePrice godoc
// @Summary Calculate quotation price
// @Description Compute the cost breakdown for an RFQ under a profit margin without persisting anything. Also serves margin recalculation.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body domain.CalculatePriceRequest true "RFQ and margin"
// @Success 200 {object} domain.PriceBreakdownDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations/calculate-price [post]
func (h *QuotationHandler) CalculatePrice(w http.ResponseWriter, r *http.Request) {
	var req domain.CalculatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	breakdown, err := h.quotationService.CalculatePrice(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToPriceBreakdownDTO(breakdown))
}

// CreateFromRFQ godoc
// @Summary Create quotation from RFQ
// @Description Price a received RFQ and send the quotation to the customer
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body domain.CreateQuotationRequest true "Quotation data"
// @Success 201 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations/create-from-rfq [post]
func (h *QuotationHandler) CreateFromRFQ(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.CreateFromRFQ(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapper.ToQuotationDTO(quotation))
}

// List godoc
// @Summary List quotations
// @Description Paginated quotation list. Customers see only their own.
// @Tags Quotations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(PENDING, SENT, APPROVED, REJECTED, EXPIRED, CANCELED)
// @Param customerId query string false "Filter by customer"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.QuotationDTO}
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations [get]
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	filters := repository.QuotationFilters{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.QuotationStatus(status)
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

	quotations, total, err := h.quotationService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list quotations", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paginated(mapper.ToQuotationDTOs(quotations), total, page, pageSize))
}

// ListByCustomer godoc
// @Summary List a customer's quotations
// @Tags Quotations
// @Produce json
// @Param customerId path string true "Customer ID"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.QuotationDTO}
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations/customer/{customerId} [get]
func (h *QuotationHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	page, pageSize := parsePaging(r)
	filters := repository.QuotationFilters{CustomerID: &customerID}

	quotations, total, err := h.quotationService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paginated(mapper.ToQuotationDTOs(quotations), total, page, pageSize))
}

// Get godoc
// @Summary Get quotation
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToQuotationDTO(quotation))
}

// Approve godoc
// @Summary Approve quotation
// @Description Accept a quotation. The sales order is created in the same transaction; re-approving returns the existing order.
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.ApproveQuotationResponse
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations/{id}/approve [post]
func (h *QuotationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	quotation, order, err := h.quotationService.Approve(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	quotationDTO := mapper.ToQuotationDTO(quotation)
	orderDTO := mapper.ToOrderDTO(order)
	respondJSON(w, http.StatusOK, domain.ApproveQuotationResponse{
		Quotation: &quotationDTO,
		Order:     &orderDTO,
	})
}

// Reject godoc
// @Summary Reject quotation
// @Description Decline a quotation. Terminal: no order is created.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.RejectQuotationRequest false "Optional reason"
// @Success 200 {object} domain.QuotationDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations/{id}/reject [post]
func (h *QuotationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	var req domain.RejectQuotationRequest
	if r.Body != nil {
		// Body is optional for rejections
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	quotation, err := h.quotationService.Reject(r.Context(), id, req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToQuotationDTO(quotation))
}

// CreateOrder godoc
// @Summary Get the order for an approved quotation
// @Description Kept for clients that call approve and create-order separately. The order is created during approval; this returns it idempotently.
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations/{id}/create-order [post]
func (h *QuotationHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	order, err := h.quotationService.OrderFor(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToOrderDTO(order))
}
