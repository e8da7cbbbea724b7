package book_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBookingService/internal/calendar"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/resource"
)

// Исходы попытки записи для метрик
const (
	outcomeCreated     = "created"
	outcomeReplayed    = "replayed"
	outcomeSlotTaken   = "slot_taken"
	outcomeRejected    = "rejected"
	outcomeUnavailable = "unavailable"
	outcomeError       = "error"
)

// UseCase use case для создания записи
type UseCase struct {
	ledger       ReservationLedger
	resourceRepo ResourceRepository
	metrics      Metrics
	timeProvider TimeProvider
	storeTimeout time.Duration
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil.
func NewUseCase(
	ledger ReservationLedger,
	resourceRepo ResourceRepository,
	metrics Metrics,
	storeTimeout time.Duration,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		ledger:       ledger,
		resourceRepo: resourceRepo,
		metrics:      metrics,
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

// Execute пересчитывает длительность по услугам, проверяет, что начало входит в сетку дня,
// и вызывает атомарный TryReserve.
//
// Запись в журнал выполняется отвязанной от отмены вызывающего (context.WithoutCancel)
// с таймаутом хранилища: начатая запись всегда заканчивается определённым исходом.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookReservation: customer=%d, resource=%d, date=%s, time=%s, services=%v",
		req.CustomerID, req.ResourceID, req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceIDs)

	resp, err := uc.execute(ctx, req)
	uc.metrics.IncBookingAttempt(outcomeOf(resp, err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookReservation: validation failed: %v", err)
		return nil, err
	}

	readCtx, cancelRead := context.WithTimeout(ctx, uc.storeTimeout)
	defer cancelRead()

	// 2. Повтор с уже использованным ключом отвечает существующей записью
	// до проверок, зависящих от текущего времени и каталога
	if req.IdempotencyKey != nil {
		resp, err := uc.replay(readCtx, req)
		if err != nil || resp != nil {
			return resp, err
		}
	}

	// 3. Получаем ресурс
	resource, err := uc.resourceRepo.GetByID(readCtx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("BookReservation: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		return nil, uc.storeError("get resource", err)
	}

	loc, err := resource.Location()
	if err != nil {
		uc.logger.Error("BookReservation: resource id=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now().In(loc)

	// 4. Валидация даты
	if err := validateDate(req.Date, now, resource.AdvanceBookingDays); err != nil {
		uc.logger.Warn("BookReservation: date validation failed: %v", err)
		return nil, err
	}

	// 5. Пересчитываем длительность и цену по услугам, клиентским значениям не доверяем
	services, err := uc.resourceRepo.GetServices(readCtx, resource.ID, false)
	if err != nil {
		return nil, uc.storeError("get services", err)
	}

	selection, err := domain.ResolveSelection(services, req.ServiceIDs)
	if err != nil {
		uc.logger.Warn("BookReservation: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}

	granularity := resource.SlotGranularityMinutes
	if granularity <= 0 {
		granularity = domain.DefaultSlotGranularityMinutes
	}
	duration := calendar.RoundUp(selection.TotalDuration(), granularity)
	date := civilDate(req.Date)

	// 6. Начало должно быть кандидатом сетки (защита от устаревшей сетки на клиенте)
	// Локальное время, пропущенное переходом на летнее время, тоже вне сетки
	schedule := calendar.ScheduleFor(resource.WorkingHours, date)
	startsAt, exists := req.StartTime.OnExact(date, loc)
	if !exists || !calendar.IsCandidate(schedule, granularity, duration, req.StartTime) {
		uc.logger.Warn("BookReservation: %s (%d min) is outside working hours of resource=%d on %s",
			req.StartTime, duration, resource.ID, date.Format(domain.DateFormat))
		return nil, ErrOutsideHours
	}

	// 7. Минимальное время до записи
	if err := validateNotice(startsAt, now, resource.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("BookReservation: %v", err)
		return nil, err
	}

	candidate := &domain.Reservation{
		ID:              uuid.New().String(),
		ResourceID:      resource.ID,
		CustomerID:      req.CustomerID,
		Date:            date,
		StartTime:       req.StartTime,
		DurationMinutes: duration,
		StartsAt:        startsAt,
		EndsAt:          startsAt.Add(time.Duration(duration) * time.Minute),
		Status:          domain.StatusPending,
		ServiceIDs:      selection.IDs(),
		TotalPrice:      selection.TotalPrice(),
		IdempotencyKey:  req.IdempotencyKey,
	}

	// 8. Атомарная проверка и вставка.
	// Ключ проверяется и здесь: параллельные запросы с одним ключом оба проходят шаг 2.
	writeCtx, cancelWrite := context.WithTimeout(context.WithoutCancel(ctx), uc.storeTimeout)
	defer cancelWrite()

	created, replayed, err := uc.ledger.TryReserve(writeCtx, candidate)
	if err != nil {
		return nil, uc.reserveError(candidate, err)
	}

	if replayed {
		uc.logger.Info("BookReservation: replayed reservation id=%s for idempotency key", created.ID)
	} else {
		uc.logger.Info("BookReservation: created reservation id=%s [%s, %s)",
			created.ID, created.StartsAt.Format(time.RFC3339), created.EndsAt.Format(time.RFC3339))
	}

	return &Response{Reservation: created, Replayed: replayed}, nil
}

// replay возвращает запись, ранее созданную по ключу идемпотентности, или nil, если её нет
func (uc *UseCase) replay(ctx context.Context, req *Request) (*Response, error) {
	existing, err := uc.ledger.GetByIdempotencyKey(ctx, req.CustomerID, *req.IdempotencyKey)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, nil
		}
		return nil, uc.storeError("get by idempotency key", err)
	}

	if !existing.SameRequest(req.ResourceID, civilDate(req.Date), req.StartTime) {
		uc.logger.Warn("BookReservation: idempotency key reused by customer=%d", req.CustomerID)
		return nil, ErrIdempotencyKeyReused
	}

	uc.logger.Info("BookReservation: replayed reservation id=%s for idempotency key", existing.ID)
	return &Response{Reservation: existing, Replayed: true}, nil
}

func (uc *UseCase) reserveError(candidate *domain.Reservation, err error) error {
	var conflict *reservationRepo.ConflictError
	switch {
	case errors.As(err, &conflict):
		// штатная конкуренция, не ошибка сервиса
		uc.logger.Warn("BookReservation: slot %s on resource=%d taken by [%s, %s)",
			candidate.StartTime, candidate.ResourceID,
			conflict.Start.Format(time.RFC3339), conflict.End.Format(time.RFC3339))
		return &SlotTakenError{Start: conflict.Start, End: conflict.End}
	case errors.Is(err, reservationRepo.ErrIdempotencyKeyReused):
		uc.logger.Warn("BookReservation: idempotency key reused by customer=%d", candidate.CustomerID)
		return ErrIdempotencyKeyReused
	case errors.Is(err, reservationRepo.ErrResourceNotFound):
		return ErrResourceNotFound
	}
	return uc.storeError("reserve", err)
}

func (uc *UseCase) storeError(op string, err error) error {
	if reservationRepo.IsUnavailable(err) {
		uc.logger.Error("BookReservation: store unavailable (%s): %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	uc.logger.Error("BookReservation: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}

func outcomeOf(resp *Response, err error) string {
	switch {
	case err == nil && resp.Replayed:
		return outcomeReplayed
	case err == nil:
		return outcomeCreated
	case errors.Is(err, ErrSlotTaken):
		return outcomeSlotTaken
	case errors.Is(err, ErrUnavailable):
		return outcomeUnavailable
	case errors.Is(err, ErrInternal):
		return outcomeError
	}
	return outcomeRejected
}
