package handler

import (
	"context"
	"encoding/json"
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

type RFQHandler struct {
	rfqService *service.RFQService
	logger     *zap.Logger
}

func NewRFQHandler(rfqService *service.RFQService, logger *zap.Logger) *RFQHandler {
	return &RFQHandler{rfqService: rfqService, logger: logger}
}

// Create godoc
// @Summary Create RFQ
// @Description Create a draft request for quotation for the calling customer
// @Tags RFQs
// @Accept json
// @Produce json
// @Param request body domain.CreateRFQRequest true "RFQ data"
// @Success 201 {object} domain.RFQDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /rfqs [post]
func (h *RFQHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRFQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	rfq, err := h.rfqService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapper.ToRFQDTO(rfq))
}

// List godoc
// @Summary List RFQs
// @Description Paginated RFQ list. Customers see only their own requests.
// @Tags RFQs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(DRAFT, SENT, RECEIVED, QUOTED, APPROVED, REJECTED, CANCELED)
// @Param customerId query string false "Filter by customer"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.RFQDTO}
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /rfqs [get]
func (h *RFQHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	filters := repository.RFQFilters{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.RFQStatus(status)
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

	rfqs, total, err := h.rfqService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list RFQs", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paginated(mapper.ToRFQDTOs(rfqs), total, page, pageSize))
}

// ListMine godoc
// @Summary List the calling customer's RFQs
// @Tags RFQs
// @Produce json
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.RFQDTO}
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /rfqs/my [get]
func (h *RFQHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok || userCtx.CustomerID == nil {
		respondWithError(w, http.StatusUnauthorized, "No customer account in session")
		return
	}

	page, pageSize := parsePaging(r)
	filters := repository.RFQFilters{CustomerID: userCtx.CustomerID}

	rfqs, total, err := h.rfqService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paginated(mapper.ToRFQDTOs(rfqs), total, page, pageSize))
}

// ListByCustomer godoc
// @Summary List a customer's RFQs
// @Tags RFQs
// @Produce json
// @Param customerId path string true "Customer ID"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.RFQDTO}
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /rfqs/customer/{customerId} [get]
func (h *RFQHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	page, pageSize := parsePaging(r)
	filters := repository.RFQFilters{CustomerID: &customerID}

	rfqs, total, err := h.rfqService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paginated(mapper.ToRFQDTOs(rfqs), total, page, pageSize))
}

// Get godoc
// @Summary Get RFQ
// @Tags RFQs
// @Produce json
// @Param id path string true "RFQ ID"
// @Success 200 {object} domain.RFQDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /rfqs/{id} [get]
func (h *RFQHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid RFQ ID")
		return
	}

	rfq, err := h.rfqService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToRFQDTO(rfq))
}

// Update godoc
// @Summary Update RFQ
// @Description Patch a draft RFQ's fields, or move its status through the lifecycle
// @Tags RFQs
// @Accept json
// @Produce json
// @Param id path string true "RFQ ID"
// @Param request body domain.UpdateRFQRequest true "Fields to update"
// @Success 200 {object} domain.RFQDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /rfqs/{id} [patch]
func (h *RFQHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid RFQ ID")
		return
	}

	var req domain.UpdateRFQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	rfq, err := h.rfqService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToRFQDTO(rfq))
}

// ForwardToPlanning godoc
// @Summary Forward RFQ to planning
// @Description Move a draft RFQ to SENT. Forwarding an already sent RFQ is a no-op.
// @Tags RFQs
// @Produce json
// @Param id path string true "RFQ ID"
// @Success 200 {object} domain.RFQDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /rfqs/{id}/forward-to-planning [post]
func (h *RFQHandler) ForwardToPlanning(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.rfqService.ForwardToPlanning)
}

// ReceiveByPlanning godoc
// @Summary Acknowledge RFQ receipt
// @Description Planning marks a SENT RFQ as received. Idempotent.
// @Tags RFQs
// @Produce json
// @Param id path string true "RFQ ID"
// @Success 200 {object} domain.RFQDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /rfqs/{id}/receive-by-planning [post]
func (h *RFQHandler) ReceiveByPlanning(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.rfqService.ReceiveByPlanning)
}

// Cancel godoc
// @Summary Cancel RFQ
// @Description Withdraw an RFQ before planning starts quoting it
// @Tags RFQs
// @Produce json
// @Param id path string true "RFQ ID"
// @Success 200 {object} domain.RFQDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /rfqs/{id}/cancel [post]
func (h *RFQHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.rfqService.Cancel)
}

// lifecycle runs one id-addressed lifecycle operation and renders the result
func (h *RFQHandler) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*domain.RFQ, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid RFQ ID")
		return
	}

	rfq, err := op(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToRFQDTO(rfq))
}
