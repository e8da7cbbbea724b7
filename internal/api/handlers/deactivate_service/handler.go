package deactivate_service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgResourceNotFound  = "мастер не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgForbidden         = "доступ запрещен"
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

// Handle DELETE /api/v1/resources/{resourceId}/services/{serviceId}
// Услуга снимается с продажи, но остается в каталоге: на нее ссылаются записи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /resources/{id}/services/{id} - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /resources/{id}/services/{id} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("DELETE /resources/{id}/services/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.DeactivateService(r.Context(), actor, resourceID, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, resources.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("DELETE /resources/{id}/services/{id} - Access denied: resource_id=%d, user_id=%d", resourceID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, resources.ErrUnavailable):
			h.logger.Error("DELETE /resources/{id}/services/{id} - Store unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("DELETE /resources/{id}/services/{id} - Failed to deactivate service: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /resources/{id}/services/{id} - Service deactivated: resource_id=%d, service_id=%d", resourceID, serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
