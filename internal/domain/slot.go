package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// SlotOffer is a candidate start on a resource calendar with its availability.
// Derived on every query and never stored.
type SlotOffer struct {
	ResourceID      int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
}
