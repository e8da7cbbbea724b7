package get_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetSchedule(ctx context.Context, resourceID int64) (*models.ScheduleResponse, error) {
	args := m.Called(resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduleResponse), args.Error(1)
}

func get(svc ResourceService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/resources/{resourceId}/schedule", NewHandler(svc, logger.NewNop()).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("GetSchedule", int64(1)).Return(&models.ScheduleResponse{ResourceID: 1, Timezone: "Europe/Moscow"}, nil)
	svc.On("GetSchedule", int64(2)).Return(nil, resources.ErrResourceNotFound)
	svc.On("GetSchedule", int64(3)).Return(nil, resources.ErrUnavailable)

	w := get(svc, "/api/v1/resources/1/schedule")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"timezone":"Europe/Moscow"`)

	assert.Equal(t, http.StatusNotFound, get(svc, "/api/v1/resources/2/schedule").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(svc, "/api/v1/resources/3/schedule").Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "/api/v1/resources/x/schedule").Code)
}
