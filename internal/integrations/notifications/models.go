package notifications

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// EventReminderDue тип события в теле сообщения
const EventReminderDue = "reservation.reminder_due"

// ReminderMessage тело события ReminderDue
type ReminderMessage struct {
	Event         string    `json:"event"`
	ReservationID string    `json:"reservation_id"`
	ResourceID    int64     `json:"resource_id"`
	CustomerID    int64     `json:"customer_id"`
	StartsAt      time.Time `json:"starts_at"`
	LeadMinutes   int       `json:"lead_minutes"`
}

// FromDomainReminder конвертирует domain событие в сообщение
func FromDomainReminder(due domain.ReminderDue) ReminderMessage {
	return ReminderMessage{
		Event:         EventReminderDue,
		ReservationID: due.ReservationID,
		ResourceID:    due.ResourceID,
		CustomerID:    due.CustomerID,
		StartsAt:      due.StartsAt.UTC(),
		LeadMinutes:   int(due.Lead),
	}
}

// RoutingKey ключ маршрутизации, например reservation.reminder.30m
func RoutingKey(lead domain.ReminderLead) string {
	return fmt.Sprintf("reservation.reminder.%dm", lead)
}
