package get_resource_reservations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/reservations"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetResourceReservations(ctx context.Context, req *models.GetResourceReservationsRequest) (*models.ReservationListResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReservationListResponse), args.Error(1)
}

func get(svc ReservationService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/api/v1/resources/{resourceId}/reservations", NewHandler(svc, logger.NewNop()).Handle)

	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.Header.Set(middleware.HeaderUserID, "500")
	r.Header.Set(middleware.HeaderUserRole, "owner")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestToServiceRequest(t *testing.T) {
	owner := domain.Actor{UserID: 500, Role: domain.RoleOwner}
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	req, err := ToServiceRequest(1, owner, QueryParams{Date: "2026-03-10", Status: "cancelled", IncludeInactive: "true"})
	require.NoError(t, err)
	assert.Equal(t, day, *req.StartDate)
	assert.Equal(t, day, *req.EndDate)
	assert.Equal(t, "cancelled", *req.Status)
	assert.True(t, req.IncludeInactive)

	req, err = ToServiceRequest(1, owner, QueryParams{StartDate: "2026-03-10"})
	require.NoError(t, err)
	assert.Equal(t, day, *req.StartDate)
	assert.Nil(t, req.EndDate)

	_, err = ToServiceRequest(1, owner, QueryParams{Date: "2026-03-10", EndDate: "2026-03-11"})
	assert.ErrorIs(t, err, ErrDateAndPeriod)

	_, err = ToServiceRequest(1, owner, QueryParams{IncludeInactive: "maybe"})
	assert.Error(t, err)

	_, err = ToServiceRequest(1, owner, QueryParams{Date: "10.03.2026"})
	assert.Error(t, err)
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{}
	svc.On("GetResourceReservations", mock.MatchedBy(func(req *models.GetResourceReservationsRequest) bool {
		return req.ResourceID == 1 && req.Actor.UserID == 500 && req.StartDate != nil
	})).Return(&models.ReservationListResponse{Reservations: []models.ReservationResponse{}}, nil)

	w := get(svc, "/api/v1/resources/1/reservations?date=2026-03-10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reservations":[]}`, w.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{reservations.ErrResourceNotFound, http.StatusNotFound},
		{reservations.ErrAccessDenied, http.StatusForbidden},
		{reservations.ErrInvalidInput, http.StatusBadRequest},
		{reservations.ErrUnavailable, http.StatusServiceUnavailable},
		{reservations.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetResourceReservations", mock.Anything).Return(nil, tt.err)

			w := get(svc, "/api/v1/resources/1/reservations")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandle_BadQuery(t *testing.T) {
	svc := &mockService{}

	w := get(svc, "/api/v1/resources/1/reservations?includeInactive=yes-please")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetResourceReservations", mock.Anything)
}
