package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Reservation is a booked interval on a resource calendar
type Reservation struct {
	ID              string // uuid
	ResourceID      int64
	CustomerID      int64
	Date            time.Time // calendar day in the resource timezone
	StartTime       types.TimeString
	DurationMinutes int
	StartsAt        time.Time
	EndsAt          time.Time
	Status          ReservationStatus
	ServiceIDs      []int64
	TotalPrice      float64
	IdempotencyKey  *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Interval returns the occupied range [StartsAt, EndsAt)
func (r *Reservation) Interval() Interval {
	return Interval{Start: r.StartsAt, End: r.EndsAt}
}

// IsActive returns true if the reservation occupies capacity
func (r *Reservation) IsActive() bool {
	return r.Status.IsActive()
}

// HasStarted returns true if the appointment time has been reached
func (r *Reservation) HasStarted(now time.Time) bool {
	return !now.Before(r.StartsAt)
}

// SameRequest reports whether a stored reservation answers the same booking request
func (r *Reservation) SameRequest(resourceID int64, date time.Time, start types.TimeString) bool {
	return r.ResourceID == resourceID &&
		r.Date.Format(DateFormat) == date.Format(DateFormat) &&
		r.StartTime == start
}

// ReservationFilter selects reservations of a resource
type ReservationFilter struct {
	ResourceID      int64              // required
	StartDate       *time.Time         // optional, inclusive
	EndDate         *time.Time         // optional, inclusive
	Status          *ReservationStatus // optional
	IncludeInactive bool               // include rejected, completed and cancelled
}
