package domain

import "time"

// ReminderLead is how many minutes before the appointment a reminder fires
type ReminderLead int

const (
	ReminderLead30 ReminderLead = 30
	ReminderLead15 ReminderLead = 15
)

// ReminderDue is emitted once per reservation and lead
type ReminderDue struct {
	ReservationID string
	ResourceID    int64
	CustomerID    int64
	StartsAt      time.Time
	Lead          ReminderLead
}
