package get_bookable_slots

import "errors"

var (
	// ErrResourceNotFound возвращается, когда мастер/кресло не найдены
	ErrResourceNotFound = errors.New("get_bookable_slots: resource not found")

	// ErrInvalidSelection пустой список услуг, неизвестная или отключённая услуга
	ErrInvalidSelection = errors.New("get_bookable_slots: invalid service selection")

	// ErrInvalidDate возвращается для даты в прошлом
	ErrInvalidDate = errors.New("get_bookable_slots: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("get_bookable_slots: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_bookable_slots: invalid input data")

	// ErrUnavailable хранилище не ответило, запрос можно повторить
	ErrUnavailable = errors.New("get_bookable_slots: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_bookable_slots: internal error")
)
