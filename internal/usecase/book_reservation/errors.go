package book_reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrResourceNotFound возвращается, когда мастер/кресло не найдены
	ErrResourceNotFound = errors.New("book_reservation: resource not found")

	// ErrInvalidSelection пустой список услуг, неизвестная или отключённая услуга
	ErrInvalidSelection = errors.New("book_reservation: invalid service selection")

	// ErrOutsideHours начало не входит в сетку дня для выбранной длительности
	ErrOutsideHours = errors.New("book_reservation: requested time is outside working hours")

	// ErrSlotTaken интервал занят активной записью (см. SlotTakenError)
	ErrSlotTaken = errors.New("book_reservation: slot is already taken")

	// ErrInvalidDate возвращается для даты в прошлом
	ErrInvalidDate = errors.New("book_reservation: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("book_reservation: date is too far in the future")

	// ErrTooLateToBook начало раньше now + minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("book_reservation: too late to book this slot")

	// ErrIdempotencyKeyReused ключ уже использован для другой записи
	ErrIdempotencyKeyReused = errors.New("book_reservation: idempotency key reused")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_reservation: invalid input data")

	// ErrUnavailable хранилище не ответило, результат записи неизвестен
	ErrUnavailable = errors.New("book_reservation: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_reservation: internal error")
)

// SlotTakenError запись конфликтует с активной записью в интервале [Start, End).
// Нулевые Start/End - интервал определить не удалось.
type SlotTakenError struct {
	Start time.Time
	End   time.Time
}

func (e *SlotTakenError) Error() string {
	if e.Start.IsZero() {
		return ErrSlotTaken.Error()
	}
	return fmt.Sprintf("%s: conflicts with [%s, %s)", ErrSlotTaken.Error(), e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

func (e *SlotTakenError) Unwrap() error {
	return ErrSlotTaken
}
