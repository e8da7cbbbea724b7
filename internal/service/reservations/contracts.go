package reservations

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// ReservationRepository интерфейс журнала записей (только чтение)
type ReservationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	ListByResource(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
