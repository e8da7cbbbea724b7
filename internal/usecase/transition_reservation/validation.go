package transition_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID == "" {
		return fmt.Errorf("%w: reservationID is required", ErrInvalidInput)
	}

	if _, err := domain.ParseAction(string(req.Action)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Actor.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	return nil
}

// authorize проверяет право актора на действие.
// accept/reject/complete - владелец ресурса или админ; cancel - ещё и клиент записи.
func authorize(actor domain.Actor, action domain.Action, res *domain.Reservation, resource *domain.Resource) error {
	if actor.IsAdmin() || actor.Owns(resource) {
		return nil
	}
	if action == domain.ActionCancel && actor.UserID == res.CustomerID {
		return nil
	}
	return fmt.Errorf("%w: user %d cannot %s reservation %s", ErrForbidden, actor.UserID, action, res.ID)
}
