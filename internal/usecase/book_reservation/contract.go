package book_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// ReservationLedger интерфейс журнала записей.
// TryReserve - единственная точка создания записи, проверка и вставка атомарны.
type ReservationLedger interface {
	TryReserve(ctx context.Context, candidate *domain.Reservation) (*domain.Reservation, bool, error)
	GetByIdempotencyKey(ctx context.Context, customerID int64, key string) (*domain.Reservation, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	GetServices(ctx context.Context, resourceID int64, onlyActive bool) ([]domain.ServiceSpec, error)
}

// Metrics счётчик исходов записи
type Metrics interface {
	IncBookingAttempt(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopMetrics struct{}

func (noopMetrics) IncBookingAttempt(string) {}
