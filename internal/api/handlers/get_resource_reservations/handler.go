package get_resource_reservations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/reservations"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidParams     = "некорректные параметры запроса"
	msgResourceNotFound  = "мастер не найден"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/reservations
// Query params: date или startDate/endDate, status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/reservations - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /resources/{id}/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(resourceID, actor, QueryParams{
		Date:            query.Get("date"),
		StartDate:       query.Get("startDate"),
		EndDate:         query.Get("endDate"),
		Status:          query.Get("status"),
		IncludeInactive: query.Get("includeInactive"),
	})
	if err != nil {
		h.logger.Warn("GET /resources/{id}/reservations - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetResourceReservations(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /resources/{id}/reservations - Access denied: resource_id=%d, user_id=%d",
				resourceID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, reservations.ErrUnavailable):
			h.logger.Error("GET /resources/{id}/reservations - Store unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /resources/{id}/reservations - Failed to get reservations: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/reservations - Reservations retrieved: resource_id=%d, count=%d",
		resourceID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
