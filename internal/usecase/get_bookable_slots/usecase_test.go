package get_bookable_slots

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/memory"
	reservationRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// Tuesday 2026-03-10
var (
	tuesday = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	monday  = tuesday.AddDate(0, 0, -1)
)

func newCatalog() *memory.Catalog {
	catalog := memory.NewCatalog()

	var hours domain.WorkingHours
	hours[time.Tuesday] = domain.DaySchedule{Open: true, OpenTime: "10:00", CloseTime: "12:00"}

	catalog.PutResource(&domain.Resource{
		ID:                     1,
		OwnerUserID:            500,
		Name:                   "Alex",
		Kind:                   domain.ResourceKindBarber,
		Timezone:               "UTC",
		SlotGranularityMinutes: 30,
		AdvanceBookingDays:     14,
		WorkingHours:           hours,
	})
	catalog.PutService(domain.ServiceSpec{ID: 10, ResourceID: 1, Name: "Haircut", Price: 20, DurationMinutes: 30, Active: true})
	catalog.PutService(domain.ServiceSpec{ID: 11, ResourceID: 1, Name: "Beard", Price: 10, DurationMinutes: 15, Active: true})
	catalog.PutService(domain.ServiceSpec{ID: 12, ResourceID: 1, Name: "Perm", Price: 80, DurationMinutes: 120, Active: false})

	return catalog
}

func reserve(t *testing.T, ledger *memory.Ledger, start string, minutes int) *domain.Reservation {
	t.Helper()
	ts := types.TimeString(start)
	startsAt := ts.On(tuesday, time.UTC)
	res, _, err := ledger.TryReserve(context.Background(), &domain.Reservation{
		ResourceID:      1,
		CustomerID:      900,
		Date:            tuesday,
		StartTime:       ts,
		DurationMinutes: minutes,
		StartsAt:        startsAt,
		EndsAt:          startsAt.Add(time.Duration(minutes) * time.Minute),
		ServiceIDs:      []int64{10},
	})
	require.NoError(t, err)
	return res
}

func newUseCase(ledger ReservationLedger, catalog ResourceRepository, now time.Time) *UseCase {
	return NewUseCase(ledger, catalog, time.Second, logger.NewNop()).WithTimeProvider(fixedTime{now: now})
}

func availability(slots []domain.SlotOffer) map[types.TimeString]bool {
	out := make(map[types.TimeString]bool, len(slots))
	for _, s := range slots {
		out[s.StartTime] = s.Available
	}
	return out
}

func TestExecute_MarksBookedSlots(t *testing.T) {
	catalog := newCatalog()
	ledger := memory.NewLedger(catalog)
	reserve(t, ledger, "10:30", 30)

	uc := newUseCase(ledger, catalog, monday.Add(9*time.Hour))
	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: tuesday, ServiceIDs: []int64{10}})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, map[types.TimeString]bool{
		"10:00": true,
		"10:30": false,
		"11:00": true,
		"11:30": true,
	}, availability(resp.Slots))
}

func TestExecute_CombinedDurationRoundedUp(t *testing.T) {
	catalog := newCatalog()
	ledger := memory.NewLedger(catalog)
	reserve(t, ledger, "11:30", 30)

	uc := newUseCase(ledger, catalog, monday)
	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: tuesday, ServiceIDs: []int64{10, 11}})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes)
	assert.InDelta(t, 30.0, resp.TotalPrice, 0.001)
	assert.Equal(t, map[types.TimeString]bool{
		"10:00": true,
		"10:30": true,
		"11:00": false,
	}, availability(resp.Slots))
}

func TestExecute_ClosedDayIsEmpty(t *testing.T) {
	catalog := newCatalog()
	uc := newUseCase(memory.NewLedger(catalog), catalog, monday)

	wednesday := tuesday.AddDate(0, 0, 1)
	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: wednesday, ServiceIDs: []int64{10}})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_CancellationFreesCapacity(t *testing.T) {
	catalog := newCatalog()
	ledger := memory.NewLedger(catalog)
	res := reserve(t, ledger, "11:00", 30)
	ctx := context.Background()

	_, err := ledger.Transition(ctx, res.ID, domain.ActionAccept.FromStatuses(), domain.StatusAccepted)
	require.NoError(t, err)

	uc := newUseCase(ledger, catalog, monday)
	req := &Request{ResourceID: 1, Date: tuesday, ServiceIDs: []int64{10}}

	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, availability(resp.Slots)["11:00"])

	_, err = ledger.Transition(ctx, res.ID, domain.ActionCancel.FromStatuses(), domain.StatusCancelled)
	require.NoError(t, err)

	resp, err = uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, availability(resp.Slots)["11:00"])
}

func TestExecute_TodayMarksSlotsBeforeNoticeUnavailable(t *testing.T) {
	catalog := newCatalog()
	res, err := catalog.GetByID(context.Background(), 1)
	require.NoError(t, err)
	res.MinBookingNoticeMinutes = 30
	catalog.PutResource(res)

	uc := newUseCase(memory.NewLedger(catalog), catalog, tuesday.Add(10*time.Hour+10*time.Minute))
	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: tuesday, ServiceIDs: []int64{10}})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 4)
	assert.Equal(t, map[types.TimeString]bool{
		"10:00": false,
		"10:30": false,
		"11:00": true,
		"11:30": true,
	}, availability(resp.Slots))
}

func TestExecute_Errors(t *testing.T) {
	catalog := newCatalog()
	uc := newUseCase(memory.NewLedger(catalog), catalog, monday)

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"past date", &Request{ResourceID: 1, Date: monday.AddDate(0, 0, -1), ServiceIDs: []int64{10}}, ErrInvalidDate},
		{"too far", &Request{ResourceID: 1, Date: monday.AddDate(0, 0, 30), ServiceIDs: []int64{10}}, ErrDateTooFarInFuture},
		{"empty selection", &Request{ResourceID: 1, Date: tuesday}, ErrInvalidSelection},
		{"inactive service", &Request{ResourceID: 1, Date: tuesday, ServiceIDs: []int64{12}}, ErrInvalidSelection},
		{"unknown service", &Request{ResourceID: 1, Date: tuesday, ServiceIDs: []int64{99}}, ErrInvalidSelection},
		{"unknown resource", &Request{ResourceID: 7, Date: tuesday, ServiceIDs: []int64{10}}, ErrResourceNotFound},
		{"bad resource id", &Request{ResourceID: 0, Date: tuesday, ServiceIDs: []int64{10}}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) ListActive(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error) {
	args := m.Called(ctx, resourceID, date)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestExecute_StoreTimeoutIsUnavailable(t *testing.T) {
	catalog := newCatalog()
	ledger := &mockLedger{}
	ledger.On("ListActive", mock.Anything, int64(1), tuesday).
		Return(nil, fmt.Errorf("%w: ListActive: %w", reservationRepo.ErrUnavailable, context.DeadlineExceeded))

	uc := newUseCase(ledger, catalog, monday)
	_, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: tuesday, ServiceIDs: []int64{10}})

	assert.ErrorIs(t, err, ErrUnavailable)
	ledger.AssertExpectations(t)
}

func TestExecute_SpringForwardSkipsMissingLocalTimes(t *testing.T) {
	catalog := newCatalog()
	res, err := catalog.GetByID(context.Background(), 1)
	require.NoError(t, err)

	// 2026-03-29 в Берлине 02:00 CET сразу становится 03:00 CEST
	res.Timezone = "Europe/Berlin"
	res.SlotGranularityMinutes = 60
	res.WorkingHours[time.Sunday] = domain.DaySchedule{Open: true, OpenTime: "01:00", CloseTime: "05:00"}
	catalog.PutResource(res)

	sunday := time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC)
	uc := newUseCase(memory.NewLedger(catalog), catalog, sunday.AddDate(0, 0, -2))

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1, Date: sunday, ServiceIDs: []int64{10}})
	require.NoError(t, err)

	assert.Equal(t, map[types.TimeString]bool{
		"01:00": true,
		"03:00": true,
		"04:00": true,
	}, availability(resp.Slots))

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	seen := make(map[time.Time]types.TimeString)
	for _, slot := range resp.Slots {
		at := slot.StartTime.On(sunday, berlin).UTC()
		prev, dup := seen[at]
		assert.False(t, dup, "%s and %s start at the same instant", prev, slot.StartTime)
		seen[at] = slot.StartTime
	}
}
