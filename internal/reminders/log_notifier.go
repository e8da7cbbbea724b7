package reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// LogNotifier только пишет событие в лог; доставку выполняет внешний сервис
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier создает notifier, пишущий в лог
func NewLogNotifier(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, due domain.ReminderDue) error {
	n.logger.Info("ReminderDue: reservation=%s, resource=%d, customer=%d, startsAt=%s, lead=%dm",
		due.ReservationID, due.ResourceID, due.CustomerID, due.StartsAt.Format(time.RFC3339), due.Lead)
	return nil
}
