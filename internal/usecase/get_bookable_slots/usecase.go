package get_bookable_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/calendar"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/resource"
)

// UseCase use case для получения сетки слотов с доступностью
type UseCase struct {
	ledger       ReservationLedger
	resourceRepo ResourceRepository
	timeProvider TimeProvider
	storeTimeout time.Duration
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledger ReservationLedger,
	resourceRepo ResourceRepository,
	storeTimeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledger:       ledger,
		resourceRepo: resourceRepo,
		timeProvider: &RealTimeProvider{},
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute строит сетку дня и помечает занятые слоты.
// Только чтение: вызывающий может отменить ctx в любой момент.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetBookableSlots: resource=%d, date=%s, services=%v",
		req.ResourceID, req.Date.Format(domain.DateFormat), req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetBookableSlots: validation failed: %v", err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()

	// 2. Получаем ресурс
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetBookableSlots: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		return nil, uc.storeError("get resource", err)
	}

	loc, err := resource.Location()
	if err != nil {
		uc.logger.Error("GetBookableSlots: resource id=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now().In(loc)

	// 3. Валидация даты с учетом окна записи
	if err := validateDate(req.Date, now, resource.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetBookableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Услуги -> длительность и цена
	services, err := uc.resourceRepo.GetServices(ctx, resource.ID, false)
	if err != nil {
		return nil, uc.storeError("get services", err)
	}

	selection, err := domain.ResolveSelection(services, req.ServiceIDs)
	if err != nil {
		uc.logger.Warn("GetBookableSlots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}

	granularity := granularityOf(resource)
	duration := calendar.RoundUp(selection.TotalDuration(), granularity)
	date := civilDate(req.Date)

	response := &Response{
		ResourceID:      resource.ID,
		Date:            date,
		DurationMinutes: duration,
		TotalPrice:      selection.TotalPrice(),
		Slots:           []domain.SlotOffer{},
	}

	// 5. Сетка дня
	candidates := calendar.Candidates(calendar.ScheduleFor(resource.WorkingHours, date), granularity, duration)
	if len(candidates) == 0 {
		uc.logger.Info("GetBookableSlots: no candidates for resource=%d on %s", resource.ID, date.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Активные записи на дату
	active, err := uc.ledger.ListActive(ctx, resource.ID, date)
	if err != nil {
		return nil, uc.storeError("list active reservations", err)
	}

	// 7. Сетка отдаётся целиком: слоты раньше now + minNotice остаются, но недоступны
	earliest := now.Add(time.Duration(resource.MinBookingNoticeMinutes) * time.Minute)

	for _, start := range candidates {
		startsAt, ok := start.OnExact(date, loc)
		if !ok {
			// Переход на летнее время: такого локального времени в этот день нет
			continue
		}

		interval := domain.Interval{Start: startsAt, End: startsAt.Add(time.Duration(duration) * time.Minute)}
		response.Slots = append(response.Slots, domain.SlotOffer{
			ResourceID:      resource.ID,
			Date:            date,
			StartTime:       start,
			DurationMinutes: duration,
			Available:       !startsAt.Before(earliest) && !overlapsAny(interval, active),
		})
	}

	uc.logger.Info("GetBookableSlots: generated %d slots for resource=%d, date=%s",
		len(response.Slots), resource.ID, date.Format(domain.DateFormat))

	return response, nil
}

func (uc *UseCase) storeError(op string, err error) error {
	if reservationRepo.IsUnavailable(err) {
		uc.logger.Error("GetBookableSlots: store unavailable (%s): %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	uc.logger.Error("GetBookableSlots: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}

func overlapsAny(interval domain.Interval, reservations []*domain.Reservation) bool {
	for _, r := range reservations {
		if r.IsActive() && interval.Overlaps(r.Interval()) {
			return true
		}
	}
	return false
}

func granularityOf(resource *domain.Resource) int {
	if resource.SlotGranularityMinutes <= 0 {
		return domain.DefaultSlotGranularityMinutes
	}
	return resource.SlotGranularityMinutes
}
