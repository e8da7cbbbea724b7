package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/reservation"
)

// Clock источник времени для created_at/updated_at
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type idempotencyKey struct {
	customerID int64
	key        string
}

// Ledger журнал записей в памяти процесса.
// Контракт и ошибки совпадают с reservation.Repository; TryReserve атомарен под одной блокировкой.
type Ledger struct {
	mu         sync.RWMutex
	byID       map[string]*domain.Reservation
	byResource map[int64][]*domain.Reservation
	byKey      map[idempotencyKey]string
	resources  ResourceChecker
	clock      Clock
}

// ResourceChecker проверяет существование ресурса (nil - любой ресурс существует)
type ResourceChecker interface {
	Exists(resourceID int64) bool
}

// NewLedger создает пустой журнал
func NewLedger(resources ResourceChecker) *Ledger {
	return NewLedgerWithClock(resources, systemClock{})
}

// NewLedgerWithClock создает журнал с заданными часами
func NewLedgerWithClock(resources ResourceChecker, clock Clock) *Ledger {
	return &Ledger{
		byID:       make(map[string]*domain.Reservation),
		byResource: make(map[int64][]*domain.Reservation),
		byKey:      make(map[idempotencyKey]string),
		resources:  resources,
		clock:      clock,
	}
}

// ListActive pending и accepted записи ресурса на дату по времени начала
func (l *Ledger) ListActive(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error) {
	if err := checkContext(ctx, "ListActive"); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	day := date.Format(domain.DateFormat)
	out := make([]*domain.Reservation, 0)
	for _, r := range l.byResource[resourceID] {
		if r.IsActive() && r.Date.Format(domain.DateFormat) == day {
			out = append(out, clone(r))
		}
	}
	sortByStart(out, true)

	return out, nil
}

// TryReserve проверка пересечений и вставка под одной блокировкой записи
func (l *Ledger) TryReserve(ctx context.Context, candidate *domain.Reservation) (*domain.Reservation, bool, error) {
	if err := checkContext(ctx, "TryReserve"); err != nil {
		return nil, false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resources != nil && !l.resources.Exists(candidate.ResourceID) {
		return nil, false, reservation.ErrResourceNotFound
	}

	if candidate.IdempotencyKey != nil {
		key := idempotencyKey{customerID: candidate.CustomerID, key: *candidate.IdempotencyKey}
		if id, ok := l.byKey[key]; ok {
			existing := l.byID[id]
			if !existing.SameRequest(candidate.ResourceID, candidate.Date, candidate.StartTime) {
				return nil, false, reservation.ErrIdempotencyKeyReused
			}
			return clone(existing), true, nil
		}
	}

	interval := candidate.Interval()
	for _, r := range l.byResource[candidate.ResourceID] {
		if r.IsActive() && r.Interval().Overlaps(interval) {
			return nil, false, reservation.NewConflictError(r)
		}
	}

	stored := clone(candidate)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	now := l.clock.Now()
	stored.Status = domain.StatusPending
	stored.CreatedAt = now
	stored.UpdatedAt = now

	l.byID[stored.ID] = stored
	l.byResource[stored.ResourceID] = append(l.byResource[stored.ResourceID], stored)
	if stored.IdempotencyKey != nil {
		l.byKey[idempotencyKey{customerID: stored.CustomerID, key: *stored.IdempotencyKey}] = stored.ID
	}

	return clone(stored), false, nil
}

// Transition compare-and-set статуса
func (l *Ledger) Transition(ctx context.Context, id string, from []domain.ReservationStatus, to domain.ReservationStatus) (*domain.Reservation, error) {
	if err := checkContext(ctx, "Transition"); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.byID[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}

	for _, s := range from {
		if r.Status == s {
			r.Status = to
			r.UpdatedAt = l.clock.Now()
			return clone(r), nil
		}
	}

	return nil, &reservation.TransitionError{ReservationID: id, Current: r.Status, Target: to}
}

// GetByID получает запись по ID
func (l *Ledger) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if err := checkContext(ctx, "GetByID"); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.byID[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return clone(r), nil
}

// GetByIdempotencyKey получает запись клиента по ключу идемпотентности
func (l *Ledger) GetByIdempotencyKey(ctx context.Context, customerID int64, key string) (*domain.Reservation, error) {
	if err := checkContext(ctx, "GetByIdempotencyKey"); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.byKey[idempotencyKey{customerID: customerID, key: key}]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return clone(l.byID[id]), nil
}

// ListByCustomer записи клиента, новые первыми
func (l *Ledger) ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	if err := checkContext(ctx, "ListByCustomer"); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Reservation, 0)
	for _, r := range l.byID {
		if r.CustomerID != customerID {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, clone(r))
	}
	sortByStart(out, false)

	return out, nil
}

// ListByResource записи ресурса по фильтру, правила как у reservation.Repository
func (l *Ledger) ListByResource(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	if err := checkContext(ctx, "ListByResource"); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Reservation, 0)
	for _, r := range l.byResource[filter.ResourceID] {
		day := r.Date.Format(domain.DateFormat)
		if filter.StartDate != nil && day < filter.StartDate.Format(domain.DateFormat) {
			continue
		}
		if filter.EndDate != nil && day > filter.EndDate.Format(domain.DateFormat) {
			continue
		}
		if filter.Status != nil {
			if r.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeInactive && !r.IsActive() {
			continue
		}
		out = append(out, clone(r))
	}

	singleDay := filter.StartDate != nil && filter.EndDate != nil &&
		filter.StartDate.Format(domain.DateFormat) == filter.EndDate.Format(domain.DateFormat)
	sortByStart(out, singleDay)

	return out, nil
}

// ListAcceptedStartingBetween accepted записи с началом в (from, to)
func (l *Ledger) ListAcceptedStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error) {
	if err := checkContext(ctx, "ListAcceptedStartingBetween"); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Reservation, 0)
	for _, r := range l.byID {
		if r.Status == domain.StatusAccepted && r.StartsAt.After(from) && r.StartsAt.Before(to) {
			out = append(out, clone(r))
		}
	}
	sortByStart(out, true)

	return out, nil
}

func checkContext(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", reservation.ErrUnavailable, op, err)
	}
	return nil
}

func sortByStart(list []*domain.Reservation, asc bool) {
	sort.SliceStable(list, func(i, j int) bool {
		if asc {
			return list[i].StartsAt.Before(list[j].StartsAt)
		}
		return list[i].StartsAt.After(list[j].StartsAt)
	})
}

func clone(r *domain.Reservation) *domain.Reservation {
	c := *r
	if r.ServiceIDs != nil {
		c.ServiceIDs = append([]int64(nil), r.ServiceIDs...)
	}
	if r.IdempotencyKey != nil {
		key := *r.IdempotencyKey
		c.IdempotencyKey = &key
	}
	return &c
}
