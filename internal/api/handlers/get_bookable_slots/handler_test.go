package get_bookable_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	getBookableSlots "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_bookable_slots"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getBookableSlots.Request) (*getBookableSlots.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*getBookableSlots.Response), args.Error(1)
}

func serve(uc GetBookableSlotsUseCase, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/resources/{resourceId}/slots", NewHandler(uc, logger.NewNop()).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle_OK(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	uc := &mockUseCase{}
	uc.On("Execute", &getBookableSlots.Request{ResourceID: 1, Date: date, ServiceIDs: []int64{10, 11}}).
		Return(&getBookableSlots.Response{
			ResourceID:      1,
			Date:            date,
			DurationMinutes: 60,
			TotalPrice:      30,
			Slots: []domain.SlotOffer{
				{ResourceID: 1, Date: date, StartTime: "10:00", DurationMinutes: 60, Available: false},
				{ResourceID: 1, Date: date, StartTime: "10:30", DurationMinutes: 60, Available: true},
			},
		}, nil)

	w := serve(uc, "/api/v1/resources/1/slots?date=2026-03-10&serviceIds=10,11")
	require.Equal(t, http.StatusOK, w.Code)

	var body SlotsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "2026-03-10", body.Date)
	assert.Equal(t, 60, body.DurationMinutes)
	assert.Equal(t, []SlotResponse{{StartTime: "10:00", Available: false}, {StartTime: "10:30", Available: true}}, body.Slots)
	uc.AssertExpectations(t)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"bad resource", "/api/v1/resources/x/slots?date=2026-03-10&serviceIds=1"},
		{"no services", "/api/v1/resources/1/slots?date=2026-03-10"},
		{"bad services", "/api/v1/resources/1/slots?date=2026-03-10&serviceIds=1,a"},
		{"no date", "/api/v1/resources/1/slots?serviceIds=1"},
		{"bad date", "/api/v1/resources/1/slots?date=10.03.2026&serviceIds=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			w := serve(uc, tt.target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{getBookableSlots.ErrResourceNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: service 7 is inactive", getBookableSlots.ErrInvalidSelection), http.StatusUnprocessableEntity},
		{getBookableSlots.ErrInvalidDate, http.StatusBadRequest},
		{getBookableSlots.ErrDateTooFarInFuture, http.StatusBadRequest},
		{getBookableSlots.ErrUnavailable, http.StatusServiceUnavailable},
		{getBookableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything).Return(nil, tt.err)

			w := serve(uc, "/api/v1/resources/1/slots?date=2026-03-10&serviceIds=1")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
