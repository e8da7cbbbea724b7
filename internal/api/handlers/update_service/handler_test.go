package update_service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdateService(ctx context.Context, req *models.UpdateServiceRequest) (*models.Service, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func patch(svc ResourceService, path, payload string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/api/v1/resources/{resourceId}/services/{serviceId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	r := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(payload))
	r.Header.Set(middleware.HeaderUserID, "1")
	r.Header.Set(middleware.HeaderUserRole, "admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateService", mock.MatchedBy(func(req *models.UpdateServiceRequest) bool {
		return req.ResourceID == 1 && req.ServiceID == 10 &&
			req.Name == nil && req.Price == nil &&
			req.DurationMinutes != nil && *req.DurationMinutes == 45
	})).Return(&models.Service{ID: 10, Name: "Haircut", Price: 20, DurationMinutes: 45, Active: true}, nil)

	w := patch(svc, "/api/v1/resources/1/services/10", `{"durationMinutes":45}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"durationMinutes":45`)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{resources.ErrResourceNotFound, http.StatusNotFound},
		{resources.ErrServiceNotFound, http.StatusNotFound},
		{resources.ErrAccessDenied, http.StatusForbidden},
		{resources.ErrInvalidInput, http.StatusBadRequest},
		{resources.ErrUnavailable, http.StatusServiceUnavailable},
		{resources.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &mockService{}
			svc.On("UpdateService", mock.Anything).Return(nil, tt.err)

			w := patch(svc, "/api/v1/resources/1/services/10", `{"price":30}`)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandle_InvalidServiceID(t *testing.T) {
	svc := &mockService{}

	w := patch(svc, "/api/v1/resources/1/services/abc", `{"price":30}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpdateService", mock.Anything)
}
