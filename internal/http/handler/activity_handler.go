package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/mapper"
	"github.com/hateco-vn/quotation-api/internal/service"
	"go.uber.org/zap"
)

const defaultActivityLimit = 50

type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, logger: logger}
}

// ListByTarget godoc
// @Summary List activities for a record
// @Description The audit trail of one RFQ, quotation or order
// @Tags Activities
// @Produce json
// @Param targetType path string true "Record type" Enums(rfq, quotation, order)
// @Param targetId path string true "Record ID"
// @Param limit query int false "Max entries" default(50)
// @Success 200 {array} domain.ActivityDTO
// @Security BearerAuth
// @Router /activities/{targetType}/{targetId} [get]
func (h *ActivityHandler) ListByTarget(w http.ResponseWriter, r *http.Request) {
	targetType := chi.URLParam(r, "targetType")
	targetID, err := uuid.Parse(chi.URLParam(r, "targetId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid target ID")
		return
	}

	activities, err := h.activityService.ListByTarget(r.Context(), targetType, targetID, activityLimit(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToActivityDTOs(activities))
}

// ListRecent godoc
// @Summary Recent activity feed
// @Tags Activities
// @Produce json
// @Param limit query int false "Max entries" default(50)
// @Success 200 {array} domain.ActivityDTO
// @Security BearerAuth
// @Router /activities [get]
func (h *ActivityHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.ListRecent(r.Context(), activityLimit(r))
	if err != nil {
		h.logger.Error("Failed to list recent activities", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToActivityDTOs(activities))
}

func activityLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		return defaultActivityLimit
	}
	return limit
}
