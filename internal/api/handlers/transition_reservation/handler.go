package transition_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/reservations/models"
	transitionReservation "github.com/m04kA/SMC-SalonBookingService/internal/usecase/transition_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidAction      = "неизвестное действие, ожидается accept, reject, complete или cancel"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "запись не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "действие недоступно для текущего статуса записи"
	msgTooLateToCancel    = "запись уже началась, отмена невозможна"
)

type Handler struct {
	useCase TransitionReservationUseCase
	logger  Logger
}

func NewHandler(useCase TransitionReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/transitions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["reservationId"]

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/transitions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/transitions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/transitions - %v", err)
		handlers.RespondBadRequest(w, msgInvalidAction)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &transitionReservation.Request{
		ReservationID: reservationID,
		Action:        action,
		Actor:         actor,
	})
	if err != nil {
		var invalid *transitionReservation.InvalidTransitionError

		switch {
		case errors.As(err, &invalid):
			h.logger.Warn("POST /reservations/{id}/transitions - Invalid transition: reservation_id=%s, current=%s, action=%s",
				reservationID, invalid.Current, action)
			handlers.RespondJSON(w, http.StatusConflict, InvalidTransitionResponse{
				Code:          http.StatusConflict,
				Message:       msgInvalidTransition,
				CurrentStatus: string(invalid.Current),
			})

		case errors.Is(err, transitionReservation.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionReservation.ErrForbidden):
			h.logger.Warn("POST /reservations/{id}/transitions - Forbidden: reservation_id=%s, user_id=%d, action=%s",
				reservationID, actor.UserID, action)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, transitionReservation.ErrTooLateToCancel):
			handlers.RespondConflict(w, msgTooLateToCancel)

		case errors.Is(err, transitionReservation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidAction)

		case errors.Is(err, transitionReservation.ErrUnavailable):
			h.logger.Error("POST /reservations/{id}/transitions - Store unavailable: reservation_id=%s, error=%v", reservationID, err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /reservations/{id}/transitions - Failed: reservation_id=%s, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/transitions - Reservation %s is %s (action=%s, user_id=%d)",
		reservationID, result.Reservation.Status, action, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(result.Reservation))
}
