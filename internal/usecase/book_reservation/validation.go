package book_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.IdempotencyKey != nil {
		if l := len(*req.IdempotencyKey); l == 0 || l > domain.MaxIdempotencyKeyLength {
			return fmt.Errorf("%w: idempotency key must be 1..%d characters", ErrInvalidInput, domain.MaxIdempotencyKeyLength)
		}
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidSelection)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и укладывается в окно записи.
// now должен быть в часовом поясе ресурса.
func validateDate(bookingDate time.Time, now time.Time, advanceBookingDays int) error {
	day := civilDate(bookingDate)
	today := civilDate(now)

	if day.Before(today) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	if day.After(today.AddDate(0, 0, advanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateNotice проверяет, что до начала не меньше minBookingNoticeMinutes
func validateNotice(startsAt, now time.Time, minBookingNoticeMinutes int) error {
	earliest := now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)
	if startsAt.Before(earliest) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}
	return nil
}

// civilDate календарный день без учёта часового пояса
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
