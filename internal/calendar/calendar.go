package calendar

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// RoundUp округляет длительность вверх до кратного шагу сетки
func RoundUp(durationMinutes, granularity int) int {
	if granularity <= 0 || durationMinutes <= 0 {
		return durationMinutes
	}
	if rem := durationMinutes % granularity; rem != 0 {
		return durationMinutes + granularity - rem
	}
	return durationMinutes
}

// ScheduleFor возвращает расписание ресурса на день недели указанной даты
func ScheduleFor(hours domain.WorkingHours, date time.Time) domain.DaySchedule {
	return hours.For(date.Weekday())
}

// Candidates перечисляет возможные начала записи на день.
// Сетка строится от открытия с шагом granularity, пока start+duration <= close.
// Кандидат, пересекающий перерыв, пропускается. Закрытый день даёт пустой срез.
// Длительность предварительно округляется вверх до шага.
func Candidates(schedule domain.DaySchedule, granularity, durationMinutes int) []types.TimeString {
	result := make([]types.TimeString, 0)

	if !schedule.Open || granularity <= 0 || durationMinutes <= 0 {
		return result
	}

	openMin := schedule.OpenTime.Minutes()
	closeMin := schedule.CloseTime.Minutes()
	if openMin < 0 || closeMin < 0 || openMin >= closeMin {
		return result
	}

	duration := RoundUp(durationMinutes, granularity)

	for start := openMin; start+duration <= closeMin; start += granularity {
		if intersectsBreak(schedule.Breaks, start, start+duration) {
			continue
		}
		ts, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			break
		}
		result = append(result, ts)
	}

	return result
}

// IsCandidate проверяет, что start входит в сетку дня для данной длительности
func IsCandidate(schedule domain.DaySchedule, granularity, durationMinutes int, start types.TimeString) bool {
	for _, c := range Candidates(schedule, granularity, durationMinutes) {
		if c == start {
			return true
		}
	}
	return false
}

// intersectsBreak полуинтервалы: граница перерыва пересечением не считается
func intersectsBreak(breaks []domain.BreakWindow, start, end int) bool {
	for _, b := range breaks {
		bStart, bEnd := b.Start.Minutes(), b.End.Minutes()
		if bStart < 0 || bEnd < 0 {
			continue
		}
		if start < bEnd && bStart < end {
			return true
		}
	}
	return false
}
