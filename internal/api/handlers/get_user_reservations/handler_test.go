package get_user_reservations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

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

func (m *mockService) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReservationListResponse), args.Error(1)
}

func get(svc ReservationService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/api/v1/users/{userId}/reservations", NewHandler(svc, logger.NewNop()).Handle)

	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.Header.Set(middleware.HeaderUserID, "100")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle_PassesStatusFilter(t *testing.T) {
	status := "accepted"

	svc := &mockService{}
	svc.On("GetUserReservations", &models.GetUserReservationsRequest{
		Actor:  domain.Actor{UserID: 100, Role: domain.RoleCustomer},
		UserID: 100,
		Status: &status,
	}).Return(&models.ReservationListResponse{
		Reservations: []models.ReservationResponse{{ID: "r-1", Status: "accepted"}},
	}, nil)

	w := get(svc, "/api/v1/users/100/reservations?status=accepted")
	require.Equal(t, http.StatusOK, w.Code)

	var body models.ReservationListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body.Reservations, 1)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{reservations.ErrAccessDenied, http.StatusForbidden},
		{reservations.ErrInvalidInput, http.StatusBadRequest},
		{reservations.ErrUnavailable, http.StatusServiceUnavailable},
		{reservations.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetUserReservations", mock.Anything).Return(nil, tt.err)

			w := get(svc, "/api/v1/users/200/reservations")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandle_InvalidUserID(t *testing.T) {
	svc := &mockService{}

	w := get(svc, "/api/v1/users/abc/reservations")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
