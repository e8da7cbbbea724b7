package get_bookable_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Request модель запроса сетки слотов
type Request struct {
	ResourceID int64     // ID мастера или кресла
	Date       time.Time // Календарный день (в часовом поясе ресурса)
	ServiceIDs []int64   // Выбранные услуги
}

// Response полная сетка дня с флагами доступности
type Response struct {
	ResourceID      int64
	Date            time.Time
	DurationMinutes int     // Длительность выбранных услуг, округлённая до шага сетки
	TotalPrice      float64 // Сумма цен выбранных услуг
	Slots           []domain.SlotOffer
}
