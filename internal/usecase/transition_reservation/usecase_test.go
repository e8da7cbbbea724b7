package transition_reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/memory"
	reservationRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

const (
	ownerID    = int64(500)
	customerID = int64(100)
)

var startsAt = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	ledger *memory.Ledger
	uc     *UseCase
	id     string
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	catalog := memory.NewCatalog()
	catalog.PutResource(&domain.Resource{ID: 1, OwnerUserID: ownerID, Kind: domain.ResourceKindBarber, Timezone: "UTC"})
	ledger := memory.NewLedger(catalog)

	created, _, err := ledger.TryReserve(context.Background(), &domain.Reservation{
		ResourceID:      1,
		CustomerID:      customerID,
		Date:            time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 30,
		StartsAt:        startsAt,
		EndsAt:          startsAt.Add(30 * time.Minute),
		Status:          domain.StatusPending,
		ServiceIDs:      []int64{10},
	})
	require.NoError(t, err)

	uc := NewUseCase(ledger, catalog, nil, time.Second, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	return &fixture{ledger: ledger, uc: uc, id: created.ID}
}

func (f *fixture) do(action domain.Action, actor domain.Actor) (*Response, error) {
	return f.uc.Execute(context.Background(), &Request{ReservationID: f.id, Action: action, Actor: actor})
}

var (
	owner    = domain.Actor{UserID: ownerID, Role: domain.RoleOwner}
	admin    = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	customer = domain.Actor{UserID: customerID, Role: domain.RoleCustomer}
	stranger = domain.Actor{UserID: 999, Role: domain.RoleCustomer}
)

func TestExecute_Lifecycle(t *testing.T) {
	f := newFixture(t, startsAt.Add(-24*time.Hour))

	resp, err := f.do(domain.ActionAccept, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, resp.Reservation.Status)

	resp, err = f.do(domain.ActionComplete, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, resp.Reservation.Status)

	_, err = f.do(domain.ActionCancel, owner)
	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, domain.StatusCompleted, invalid.Current)
	assert.Equal(t, domain.StatusCancelled, invalid.Target)
}

func TestExecute_RejectedCannotBeAccepted(t *testing.T) {
	f := newFixture(t, startsAt.Add(-time.Hour))

	_, err := f.do(domain.ActionReject, owner)
	require.NoError(t, err)

	_, err = f.do(domain.ActionAccept, owner)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.ledger.GetByID(context.Background(), f.id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, stored.Status)
}

func TestExecute_PendingCannotBeCancelled(t *testing.T) {
	f := newFixture(t, startsAt.Add(-time.Hour))

	_, err := f.do(domain.ActionCancel, customer)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_Authorization(t *testing.T) {
	tests := []struct {
		name   string
		action domain.Action
		actor  domain.Actor
		want   error
	}{
		{"customer cannot accept", domain.ActionAccept, customer, ErrForbidden},
		{"stranger cannot reject", domain.ActionReject, stranger, ErrForbidden},
		{"owner role of another resource", domain.ActionAccept, domain.Actor{UserID: 777, Role: domain.RoleOwner}, ErrForbidden},
		{"owner id without owner role", domain.ActionAccept, domain.Actor{UserID: ownerID, Role: domain.RoleCustomer}, ErrForbidden},
		{"owner accepts", domain.ActionAccept, owner, nil},
		{"admin rejects", domain.ActionReject, admin, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, startsAt.Add(-time.Hour))
			_, err := f.do(tt.action, tt.actor)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecute_CancelByCustomerBeforeStart(t *testing.T) {
	f := newFixture(t, startsAt.Add(-time.Minute))

	_, err := f.do(domain.ActionAccept, owner)
	require.NoError(t, err)

	_, err = f.do(domain.ActionCancel, stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := f.do(domain.ActionCancel, customer)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Reservation.Status)

	active, err := f.ledger.ListActive(context.Background(), 1, startsAt)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestExecute_CancelAfterStartIsRejected(t *testing.T) {
	f := newFixture(t, startsAt)

	_, err := f.do(domain.ActionAccept, owner)
	require.NoError(t, err)

	_, err = f.do(domain.ActionCancel, customer)
	assert.ErrorIs(t, err, ErrTooLateToCancel)
}

func TestExecute_ConcurrentAcceptAndRejectOneWins(t *testing.T) {
	f := newFixture(t, startsAt.Add(-time.Hour))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
		invalid int
	)
	for i := 0; i < 20; i++ {
		action := domain.ActionAccept
		if i%2 == 1 {
			action = domain.ActionReject
		}
		wg.Add(1)
		go func(action domain.Action) {
			defer wg.Done()
			_, err := f.do(action, owner)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				applied++
			} else if errors.Is(err, ErrInvalidTransition) {
				invalid++
			}
		}(action)
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
	assert.Equal(t, 19, invalid)
}

func TestExecute_NotFoundAndInput(t *testing.T) {
	f := newFixture(t, startsAt.Add(-time.Hour))

	_, err := f.uc.Execute(context.Background(), &Request{ReservationID: "missing", Action: domain.ActionAccept, Actor: owner})
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = f.uc.Execute(context.Background(), &Request{ReservationID: f.id, Action: "approve", Actor: owner})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{ReservationID: f.id, Action: domain.ActionAccept})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *mockLedger) Transition(ctx context.Context, id string, from []domain.ReservationStatus, to domain.ReservationStatus) (*domain.Reservation, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) IncTransition(action, outcome string) {
	m.Called(action, outcome)
}

func TestExecute_StoreUnavailable(t *testing.T) {
	catalog := memory.NewCatalog()
	catalog.PutResource(&domain.Resource{ID: 1, OwnerUserID: ownerID, Timezone: "UTC"})

	res := &domain.Reservation{ID: "r-1", ResourceID: 1, CustomerID: customerID, Status: domain.StatusPending, StartsAt: startsAt}

	ledger := &mockLedger{}
	ledger.On("GetByID", mock.Anything, "r-1").Return(res, nil)
	ledger.On("Transition", mock.Anything, "r-1", mock.Anything, domain.StatusAccepted).
		Return(nil, reservationRepo.ErrUnavailable)

	metrics := &mockMetrics{}
	metrics.On("IncTransition", "accept", "unavailable").Once()

	uc := NewUseCase(ledger, catalog, metrics, time.Second, logger.NewNop()).
		WithTimeProvider(fixedTime{now: startsAt.Add(-time.Hour)})

	_, err := uc.Execute(context.Background(), &Request{ReservationID: "r-1", Action: domain.ActionAccept, Actor: owner})
	assert.ErrorIs(t, err, ErrUnavailable)

	ledger.AssertExpectations(t)
	metrics.AssertExpectations(t)
}
