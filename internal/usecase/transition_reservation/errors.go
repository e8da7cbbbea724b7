package transition_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда запись не найдена
	ErrReservationNotFound = errors.New("transition_reservation: reservation not found")

	// ErrForbidden действие не разрешено для этого пользователя
	ErrForbidden = errors.New("transition_reservation: action is not allowed for this user")

	// ErrInvalidTransition текущий статус не допускает действие (см. InvalidTransitionError)
	ErrInvalidTransition = errors.New("transition_reservation: invalid status transition")

	// ErrTooLateToCancel запись уже началась
	ErrTooLateToCancel = errors.New("transition_reservation: reservation has already started")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_reservation: invalid input data")

	// ErrUnavailable хранилище не ответило
	ErrUnavailable = errors.New("transition_reservation: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_reservation: internal error")
)

// InvalidTransitionError переход из Current в Target запрещён
type InvalidTransitionError struct {
	Current domain.ReservationStatus
	Target  domain.ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition.Error(), e.Current, e.Target)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
