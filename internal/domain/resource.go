package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

var (
	ErrInvalidDaySchedule = errors.New("domain: invalid day schedule")
	ErrInvalidTimezone    = errors.New("domain: invalid timezone")
)

// ResourceKind distinguishes a barber calendar from a single chair calendar
type ResourceKind string

const (
	ResourceKindBarber ResourceKind = "barber"
	ResourceKindChair  ResourceKind = "chair"
)

// IsValid reports whether k is a known kind
func (k ResourceKind) IsValid() bool {
	return k == ResourceKindBarber || k == ResourceKindChair
}

// Resource is a schedulable entity with its own calendar.
// It is read inside the booking transaction and never modified by it.
type Resource struct {
	ID                      int64
	OwnerUserID             int64 // barber account allowed to act on reservations
	Name                    string
	Kind                    ResourceKind
	Timezone                string
	SlotGranularityMinutes  int
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	WorkingHours            WorkingHours
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Location resolves the resource timezone
func (r *Resource) Location() (*time.Location, error) {
	name := r.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// HasAdvanceBookingLimit returns true if bookings are limited to a window from today
func (r *Resource) HasAdvanceBookingLimit() bool {
	return r.AdvanceBookingDays > 0
}

// IsOwnedBy returns true if userID is the resource owner
func (r *Resource) IsOwnedBy(userID int64) bool {
	return r.OwnerUserID != 0 && r.OwnerUserID == userID
}

// BreakWindow is a closed part of an open day, [Start, End)
type BreakWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// DaySchedule describes opening hours of one weekday
type DaySchedule struct {
	Open      bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
	Breaks    []BreakWindow
}

// Validate checks that times are well-formed and breaks lie inside opening hours
func (d DaySchedule) Validate() error {
	if !d.Open {
		return nil
	}

	openMin, closeMin := d.OpenTime.Minutes(), d.CloseTime.Minutes()
	if openMin < 0 || closeMin < 0 {
		return fmt.Errorf("%w: malformed open/close time", ErrInvalidDaySchedule)
	}
	if openMin >= closeMin {
		return fmt.Errorf("%w: open time %s is not before close time %s", ErrInvalidDaySchedule, d.OpenTime, d.CloseTime)
	}
	if len(d.Breaks) > MaxBreaksPerDay {
		return fmt.Errorf("%w: too many breaks", ErrInvalidDaySchedule)
	}

	for _, b := range d.Breaks {
		start, end := b.Start.Minutes(), b.End.Minutes()
		if start < 0 || end < 0 || start >= end {
			return fmt.Errorf("%w: malformed break %s-%s", ErrInvalidDaySchedule, b.Start, b.End)
		}
		if start < openMin || end > closeMin {
			return fmt.Errorf("%w: break %s-%s is outside opening hours", ErrInvalidDaySchedule, b.Start, b.End)
		}
	}

	return nil
}

// WorkingHours is the weekly policy, indexed by time.Weekday
type WorkingHours [7]DaySchedule

// For returns the schedule of a weekday
func (w WorkingHours) For(day time.Weekday) DaySchedule {
	return w[day]
}

// Validate checks every weekday
func (w WorkingHours) Validate() error {
	for day, schedule := range w {
		if err := schedule.Validate(); err != nil {
			return fmt.Errorf("%s: %w", time.Weekday(day), err)
		}
	}
	return nil
}
