package get_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
	msgResourceNotFound  = "мастер не найден"
)

type Handler struct {
	service ResourceService
	logger  Logger
}

func NewHandler(service ResourceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/schedule
// Публичный endpoint
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/schedule - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), resourceID)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, resources.ErrUnavailable):
			h.logger.Error("GET /resources/{id}/schedule - Store unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /resources/{id}/schedule - Failed to get schedule: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
