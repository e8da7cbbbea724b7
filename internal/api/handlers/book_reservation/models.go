package book_reservation

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	bookReservation "github.com/m04kA/SMC-SalonBookingService/internal/usecase/book_reservation"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// BookReservationRequest HTTP request model
type BookReservationRequest struct {
	ResourceID int64   `json:"resourceId"`
	Date       string  `json:"date"`      // "2026-03-10"
	StartTime  string  `json:"startTime"` // "10:00"
	ServiceIDs []int64 `json:"serviceIds"`
}

// SlotTakenResponse тело 409 с интервалом мешающей записи
type SlotTakenResponse struct {
	Code     int            `json:"code"`
	Message  string         `json:"message"`
	Conflict *ConflictRange `json:"conflict,omitempty"`
}

// ConflictRange интервал [start, end)
type ConflictRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookReservationRequest) ToUseCaseRequest(customerID int64, idempotencyKey *string) (*bookReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &bookReservation.Request{
		ResourceID:     r.ResourceID,
		CustomerID:     customerID,
		Date:           date,
		StartTime:      startTime,
		ServiceIDs:     r.ServiceIDs,
		IdempotencyKey: idempotencyKey,
	}, nil
}
