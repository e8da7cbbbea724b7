package create_service

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
	msgInvalidService     = "некорректные параметры услуги"
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

// Handle POST /api/v1/resources/{resourceId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /resources/{id}/services - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /resources/{id}/services - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Actor = actor
	req.ResourceID = resourceID

	result, err := h.service.CreateService(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("POST /resources/{id}/services - Access denied: resource_id=%d, user_id=%d", resourceID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, resources.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidService)

		case errors.Is(err, resources.ErrUnavailable):
			h.logger.Error("POST /resources/{id}/services - Store unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /resources/{id}/services - Failed to create service: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/{id}/services - Service created: resource_id=%d, service_id=%d", resourceID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
