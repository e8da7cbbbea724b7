package transition_reservation

import "github.com/m04kA/SMC-SalonBookingService/internal/domain"

// Request запрос на смену статуса записи
type Request struct {
	ReservationID string
	Action        domain.Action
	Actor         domain.Actor
}

// Response запись после перехода
type Response struct {
	Reservation *domain.Reservation
}
