package get_bookable_slots

import (
	"context"

	getBookableSlots "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_bookable_slots"
)

type GetBookableSlotsUseCase interface {
	Execute(ctx context.Context, req *getBookableSlots.Request) (*getBookableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
