package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources/models"
)

const (
	msgInvalidResourceID  = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgResourceNotFound   = "мастер не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidSchedule    = "некорректное расписание"
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

// Handle PUT /api/v1/resources/{resourceId}/schedule
// Частичное обновление: не указанные поля остаются прежними
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /resources/{id}/schedule - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /resources/{id}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Actor = actor
	req.ResourceID = resourceID

	result, err := h.service.UpdateSchedule(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("PUT /resources/{id}/schedule - Access denied: resource_id=%d, user_id=%d", resourceID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, resources.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, resources.ErrUnavailable):
			h.logger.Error("PUT /resources/{id}/schedule - Store unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("PUT /resources/{id}/schedule - Failed to update schedule: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /resources/{id}/schedule - Schedule updated: resource_id=%d, user_id=%d", resourceID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
