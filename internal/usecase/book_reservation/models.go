package book_reservation

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Request модель запроса на запись
type Request struct {
	ResourceID     int64            // ID мастера или кресла
	CustomerID     int64            // ID клиента
	Date           time.Time        // Календарный день
	StartTime      types.TimeString // Время начала, например "10:00"
	ServiceIDs     []int64          // Выбранные услуги
	IdempotencyKey *string          // Ключ идемпотентности клиента (опционально)
}

// Response созданная (или повторно возвращённая по ключу) запись
type Response struct {
	Reservation *domain.Reservation
	Replayed    bool // запись уже существовала с этим ключом идемпотентности
}
