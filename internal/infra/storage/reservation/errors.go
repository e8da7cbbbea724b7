package reservation

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/txmanager"
)

var (
	// ErrReservationNotFound возвращается, когда запись не найдена
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrResourceNotFound ресурс, на который идёт запись, не существует
	ErrResourceNotFound = errors.New("reservation.repository: resource not found")

	// ErrSlotTaken интервал пересекается с активной записью (см. ConflictError)
	ErrSlotTaken = errors.New("reservation.repository: slot taken")

	// ErrInvalidTransition текущий статус не входит в допустимый набор
	ErrInvalidTransition = errors.New("reservation.repository: invalid status transition")

	// ErrIdempotencyKeyReused ключ уже использован для другого запроса
	ErrIdempotencyKeyReused = errors.New("reservation.repository: idempotency key reused for a different request")

	// ErrUnavailable хранилище недоступно или не ответило вовремя, операцию можно повторить
	ErrUnavailable = errors.New("reservation.repository: store unavailable")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)

const (
	pqExclusionViolation = "23P01"
	pqUniqueViolation    = "23505"
	pqAdminShutdown      = "57P01"
	pqQueryCanceled      = "57014"
	pqTooManyConnections = "53300"
	pqConnectionClass    = "08"

	noOverlapConstraint   = "reservations_no_overlap"
	idempotencyConstraint = "uq_reservations_idempotency"
)

// ConflictError запись пересекается с активной записью ресурса.
// Start/End - интервал мешающей записи, если его удалось определить.
type ConflictError struct {
	ReservationID string
	Start         time.Time
	End           time.Time
}

func (e *ConflictError) Error() string {
	if e.Start.IsZero() {
		return ErrSlotTaken.Error()
	}
	return fmt.Sprintf("%s: [%s, %s)", ErrSlotTaken.Error(), e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error {
	return ErrSlotTaken
}

// NewConflictError строит ошибку по мешающей записи
func NewConflictError(existing *domain.Reservation) *ConflictError {
	return &ConflictError{
		ReservationID: existing.ID,
		Start:         existing.StartsAt,
		End:           existing.EndsAt,
	}
}

// TransitionError переход запрещён для текущего статуса
type TransitionError struct {
	ReservationID string
	Current       domain.ReservationStatus
	Target        domain.ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition.Error(), e.Current, e.Target)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// classify превращает сбои соединения и таймауты в ErrUnavailable,
// остальные ошибки оборачивает в fallback
func classify(fallback error, op string, err error) error {
	if err == nil {
		return nil
	}
	if IsUnavailable(err) {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %w", fallback, op, err)
}

// IsUnavailable сообщает, что ошибка - сбой или таймаут хранилища, операцию можно повторить
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, txmanager.ErrRetriesExhausted) ||
		errors.Is(err, txmanager.ErrBeginTx) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return strings.HasPrefix(code, pqConnectionClass) ||
			code == pqAdminShutdown ||
			code == pqQueryCanceled ||
			code == pqTooManyConnections
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isConstraintViolation(err error, code, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == code && pqErr.Constraint == constraint
}
