package domain

// Default resource policy values
const (
	DefaultSlotGranularityMinutes  = 30
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
	DefaultTimezone                = "UTC"
)

// Business validation constants
const (
	MinSlotGranularityMinutes  = 5
	MaxSlotGranularityMinutes  = 240
	MinAdvanceBookingDays      = 0
	MaxAdvanceBookingDays      = 365
	MinBookingNoticeMinutes    = 0
	MaxBookingNoticeMinutes    = 10080 // 1 week
	MaxServicesPerReservation  = 10
	MaxServiceDurationMinutes  = 480
	MaxServiceNameLength       = 100
	MaxIdempotencyKeyLength    = 128
	MaxBreaksPerDay            = 4
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
