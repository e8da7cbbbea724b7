package reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// ReservationSource источник подтверждённых записей
type ReservationSource interface {
	ListAcceptedStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error)
}

// FiredStore хранит отметки отправленных напоминаний.
// Mark возвращает false, если отметка уже стоит (напоминание отправлено или отправляется).
type FiredStore interface {
	Mark(ctx context.Context, reservationID string, lead domain.ReminderLead) (bool, error)
	Release(ctx context.Context, reservationID string, lead domain.ReminderLead) error
}

// Notifier доставляет событие ReminderDue
type Notifier interface {
	Notify(ctx context.Context, due domain.ReminderDue) error
}

// Metrics счётчик напоминаний
type Metrics interface {
	IncReminder(lead, outcome string)
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

func (noopMetrics) IncReminder(string, string) {}
