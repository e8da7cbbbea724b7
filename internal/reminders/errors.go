package reminders

import "errors"

var (
	// ErrInvalidConfig некорректные настройки планировщика
	ErrInvalidConfig = errors.New("reminders: invalid config")

	// ErrLoadReservations не удалось получить записи
	ErrLoadReservations = errors.New("reminders: failed to load reservations")

	// ErrFiredStore сбой хранилища отметок
	ErrFiredStore = errors.New("reminders: fired store failure")

	// ErrNotify сбой доставки
	ErrNotify = errors.New("reminders: notify failed")
)
