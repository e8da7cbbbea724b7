package book_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/reservations/models"
	bookReservation "github.com/m04kA/SMC-SalonBookingService/internal/usecase/book_reservation"
)

// HeaderIdempotencyKey ключ идемпотентности клиента
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные записи"
	msgResourceNotFound   = "мастер не найден"
	msgInvalidSelection   = "выбранные услуги недоступны"
	msgOutsideHours       = "выбранное время вне рабочего расписания"
	msgSlotTaken          = "выбранное время уже занято"
	msgPastDate           = "дата записи в прошлом"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgTooLateToBook      = "слишком поздно для записи на это время"
	msgKeyReused          = "ключ идемпотентности уже использован для другой записи"
)

type Handler struct {
	useCase BookReservationUseCase
	logger  Logger
}

func NewHandler(useCase BookReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
// Header Idempotency-Key (optional): повтор с тем же ключом возвращает ту же запись
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BookReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var idempotencyKey *string
	if key := r.Header.Get(HeaderIdempotencyKey); key != "" {
		idempotencyKey = &key
	}

	useCaseReq, err := req.ToUseCaseRequest(actor.UserID, idempotencyKey)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, &req, actor.UserID, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /reservations - Reservation booked: reservation_id=%s, customer_id=%d, resource_id=%d, replayed=%t",
		result.Reservation.ID, actor.UserID, req.ResourceID, result.Replayed)
	handlers.RespondJSON(w, status, models.FromDomainReservation(result.Reservation))
}

func (h *Handler) respondError(w http.ResponseWriter, req *BookReservationRequest, customerID int64, err error) {
	var taken *bookReservation.SlotTakenError

	switch {
	case errors.As(err, &taken):
		h.logger.Warn("POST /reservations - Slot taken: customer_id=%d, resource_id=%d, start=%s %s",
			customerID, req.ResourceID, req.Date, req.StartTime)
		body := SlotTakenResponse{Code: http.StatusConflict, Message: msgSlotTaken}
		if !taken.Start.IsZero() {
			body.Conflict = &ConflictRange{Start: taken.Start, End: taken.End}
		}
		handlers.RespondJSON(w, http.StatusConflict, body)

	case errors.Is(err, bookReservation.ErrOutsideHours):
		handlers.RespondUnprocessable(w, msgOutsideHours)

	case errors.Is(err, bookReservation.ErrInvalidSelection):
		handlers.RespondUnprocessable(w, msgInvalidSelection)

	case errors.Is(err, bookReservation.ErrResourceNotFound):
		h.logger.Warn("POST /reservations - Resource not found: resource_id=%d", req.ResourceID)
		handlers.RespondNotFound(w, msgResourceNotFound)

	case errors.Is(err, bookReservation.ErrInvalidDate):
		handlers.RespondBadRequest(w, msgPastDate)

	case errors.Is(err, bookReservation.ErrDateTooFarInFuture):
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, bookReservation.ErrTooLateToBook):
		handlers.RespondUnprocessable(w, msgTooLateToBook)

	case errors.Is(err, bookReservation.ErrIdempotencyKeyReused):
		handlers.RespondUnprocessable(w, msgKeyReused)

	case errors.Is(err, bookReservation.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, bookReservation.ErrUnavailable):
		h.logger.Error("POST /reservations - Store unavailable: customer_id=%d, resource_id=%d, error=%v",
			customerID, req.ResourceID, err)
		handlers.RespondUnavailable(w)

	default:
		h.logger.Error("POST /reservations - Failed to book: customer_id=%d, resource_id=%d, error=%v",
			customerID, req.ResourceID, err)
		handlers.RespondInternalError(w)
	}
}
