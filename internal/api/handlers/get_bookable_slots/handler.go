package get_bookable_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	getBookableSlots "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_bookable_slots"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
	msgInvalidServiceIDs = "некорректный список услуг"
	msgMissingServiceIDs = "нужно выбрать хотя бы одну услугу"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgResourceNotFound  = "мастер не найден"
	msgInvalidSelection  = "выбранные услуги недоступны"
	msgPastDate          = "дата в прошлом"
	msgDateTooFar        = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetBookableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetBookableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/slots
// Query params: date (required, YYYY-MM-DD), serviceIds (required, "1,2")
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil || resourceID <= 0 {
		h.logger.Warn("GET /resources/{id}/slots - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	query := r.URL.Query()

	serviceIDs, err := ParseServiceIDs(query.Get("serviceIds"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/slots - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}
	if len(serviceIDs) == 0 {
		h.logger.Warn("GET /resources/{id}/slots - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /resources/{id}/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(resourceID, dateStr, serviceIDs)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getBookableSlots.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/slots - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getBookableSlots.ErrInvalidSelection):
			h.logger.Warn("GET /resources/{id}/slots - Invalid selection: resource_id=%d, services=%v", resourceID, serviceIDs)
			handlers.RespondUnprocessable(w, msgInvalidSelection)

		case errors.Is(err, getBookableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getBookableSlots.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getBookableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidServiceIDs)

		case errors.Is(err, getBookableSlots.ErrUnavailable):
			h.logger.Error("GET /resources/{id}/slots - Store unavailable: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /resources/{id}/slots - Failed to get slots: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /resources/{id}/slots - Slots retrieved successfully: resource_id=%d, slots_count=%d",
		resourceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
