package reminders

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// lookahead окно выборки записей: самое раннее напоминание за 30 минут плюс запас на округление
const lookahead = 31 * time.Minute

// MinutesUntil целые минуты до начала, с округлением вниз
func MinutesUntil(startsAt, now time.Time) int {
	d := startsAt.Sub(now)
	if d < 0 {
		// для отрицательных значений округляем к минус бесконечности
		return int((d - time.Minute + 1) / time.Minute)
	}
	return int(d / time.Minute)
}

// LeadFor напоминание, которое должно сработать при minutesUntil минутах до начала.
// (15, 30] - за 30 минут, (0, 15] - за 15 минут.
func LeadFor(minutesUntil int) (domain.ReminderLead, bool) {
	switch {
	case minutesUntil > 15 && minutesUntil <= 30:
		return domain.ReminderLead30, true
	case minutesUntil > 0 && minutesUntil <= 15:
		return domain.ReminderLead15, true
	}
	return 0, false
}
