package book_reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/reservations/models"
	bookReservation "github.com/m04kA/SMC-SalonBookingService/internal/usecase/book_reservation"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *bookReservation.Request) (*bookReservation.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookReservation.Response), args.Error(1)
}

const body = `{"resourceId":1,"date":"2026-03-10","startTime":"10:00","serviceIds":[10,11]}`

var startsAt = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func post(uc BookReservationUseCase, payload string, headers map[string]string) *httptest.ResponseRecorder {
	handler := middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.NewNop()).Handle))

	r := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(payload))
	r.Header.Set(middleware.HeaderUserID, "100")
	for k, v := range headers {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func reservation() *domain.Reservation {
	return &domain.Reservation{
		ID:              "9a4f",
		ResourceID:      1,
		CustomerID:      100,
		Date:            time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 45,
		StartsAt:        startsAt,
		EndsAt:          startsAt.Add(45 * time.Minute),
		Status:          domain.StatusPending,
		ServiceIDs:      []int64{10, 11},
		TotalPrice:      30,
	}
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.MatchedBy(func(req *bookReservation.Request) bool {
		return req.CustomerID == 100 &&
			req.ResourceID == 1 &&
			req.StartTime == "10:00" &&
			req.IdempotencyKey != nil && *req.IdempotencyKey == "k-1"
	})).Return(&bookReservation.Response{Reservation: reservation()}, nil).Once()

	w := post(uc, body, map[string]string{HeaderIdempotencyKey: "k-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.ReservationResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "9a4f", resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 45, resp.DurationMinutes)
	uc.AssertExpectations(t)
}

func TestHandle_ReplayReturnsOK(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything).Return(&bookReservation.Response{Reservation: reservation(), Replayed: true}, nil)

	w := post(uc, body, map[string]string{HeaderIdempotencyKey: "k-1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandle_SlotTakenCarriesConflict(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything).Return(nil, &bookReservation.SlotTakenError{
		Start: startsAt,
		End:   startsAt.Add(30 * time.Minute),
	})

	w := post(uc, body, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	var resp SlotTakenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Conflict)
	assert.True(t, resp.Conflict.Start.Equal(startsAt))
	assert.True(t, resp.Conflict.End.Equal(startsAt.Add(30*time.Minute)))
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{bookReservation.ErrOutsideHours, http.StatusUnprocessableEntity},
		{bookReservation.ErrInvalidSelection, http.StatusUnprocessableEntity},
		{bookReservation.ErrTooLateToBook, http.StatusUnprocessableEntity},
		{bookReservation.ErrResourceNotFound, http.StatusNotFound},
		{bookReservation.ErrInvalidDate, http.StatusBadRequest},
		{bookReservation.ErrUnavailable, http.StatusServiceUnavailable},
		{bookReservation.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything).Return(nil, tt.err)

			w := post(uc, body, nil)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusServiceUnavailable {
				assert.NotEmpty(t, w.Header().Get("Retry-After"))
			}
		})
	}
}

func TestHandle_BadInput(t *testing.T) {
	for _, payload := range []string{
		`{"resourceId":1`,
		`{"resourceId":1,"date":"2026-03-10","startTime":"10:00","serviceIds":[10],"price":1}`,
		`{"resourceId":1,"date":"10/03/2026","startTime":"10:00","serviceIds":[10]}`,
		`{"resourceId":1,"date":"2026-03-10","startTime":"10am","serviceIds":[10]}`,
	} {
		uc := &mockUseCase{}
		w := post(uc, payload, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
		uc.AssertNotCalled(t, "Execute", mock.Anything)
	}
}
