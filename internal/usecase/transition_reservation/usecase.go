package transition_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/resource"
)

const (
	outcomeApplied     = "applied"
	outcomeConflict    = "invalid_transition"
	outcomeRejected    = "rejected"
	outcomeUnavailable = "unavailable"
	outcomeError       = "error"
)

// UseCase use case для перевода записи между статусами
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

// Execute применяет действие к записи.
// Предварительная проверка статуса только отсекает заведомо невозможные переходы,
// итог определяет условный UPDATE в журнале.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionReservation: reservation=%s, action=%s, user=%d, role=%s",
		req.ReservationID, req.Action, req.Actor.UserID, req.Actor.Role)

	resp, err := uc.execute(ctx, req)
	uc.metrics.IncTransition(string(req.Action), outcomeOf(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionReservation: validation failed: %v", err)
		return nil, err
	}

	readCtx, cancelRead := context.WithTimeout(ctx, uc.storeTimeout)
	defer cancelRead()

	// 2. Запись и её ресурс
	res, err := uc.ledger.GetByID(readCtx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("TransitionReservation: reservation id=%s not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		return nil, uc.storeError("get reservation", err)
	}

	resource, err := uc.resourceRepo.GetByID(readCtx, res.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Error("TransitionReservation: resource id=%d of reservation %s not found", res.ResourceID, res.ID)
			return nil, fmt.Errorf("%w: resource %d not found", ErrInternal, res.ResourceID)
		}
		return nil, uc.storeError("get resource", err)
	}

	// 3. Права
	if err := authorize(req.Actor, req.Action, res, resource); err != nil {
		uc.logger.Warn("TransitionReservation: %v", err)
		return nil, err
	}

	// 4. Таблица переходов
	target := req.Action.Target()
	if !res.Status.CanTransitionTo(target) {
		uc.logger.Warn("TransitionReservation: reservation id=%s: %s -> %s is not allowed", res.ID, res.Status, target)
		return nil, &InvalidTransitionError{Current: res.Status, Target: target}
	}

	// 5. Отмена только до начала
	if req.Action == domain.ActionCancel && res.HasStarted(uc.timeProvider.Now()) {
		uc.logger.Warn("TransitionReservation: reservation id=%s started at %s", res.ID, res.StartsAt.Format(time.RFC3339))
		return nil, ErrTooLateToCancel
	}

	// 6. Условный переход
	writeCtx, cancelWrite := context.WithTimeout(context.WithoutCancel(ctx), uc.storeTimeout)
	defer cancelWrite()

	updated, err := uc.ledger.Transition(writeCtx, res.ID, req.Action.FromStatuses(), target)
	if err != nil {
		return nil, uc.transitionError(res.ID, err)
	}

	uc.logger.Info("TransitionReservation: reservation id=%s is %s", updated.ID, updated.Status)
	return &Response{Reservation: updated}, nil
}

func (uc *UseCase) transitionError(id string, err error) error {
	var conflict *reservationRepo.TransitionError
	switch {
	case errors.As(err, &conflict):
		// параллельное действие успело раньше
		uc.logger.Warn("TransitionReservation: reservation id=%s changed concurrently, now %s", id, conflict.Current)
		return &InvalidTransitionError{Current: conflict.Current, Target: conflict.Target}
	case errors.Is(err, reservationRepo.ErrReservationNotFound):
		return ErrReservationNotFound
	}
	return uc.storeError("transition", err)
}

func (uc *UseCase) storeError(op string, err error) error {
	if reservationRepo.IsUnavailable(err) {
		uc.logger.Error("TransitionReservation: store unavailable (%s): %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	uc.logger.Error("TransitionReservation: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeApplied
	case errors.Is(err, ErrInvalidTransition):
		return outcomeConflict
	case errors.Is(err, ErrUnavailable):
		return outcomeUnavailable
	case errors.Is(err, ErrInternal):
		return outcomeError
	}
	return outcomeRejected
}
