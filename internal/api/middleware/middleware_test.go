package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/metrics"
)

func TestAuth(t *testing.T) {
	var got domain.Actor
	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetActor(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		userID string
		role   string
		status int
		actor  domain.Actor
	}{
		{"default role", "42", "", http.StatusNoContent, domain.Actor{UserID: 42, Role: domain.RoleCustomer}},
		{"owner", "7", "owner", http.StatusNoContent, domain.Actor{UserID: 7, Role: domain.RoleOwner}},
		{"missing user", "", "", http.StatusUnauthorized, domain.Actor{}},
		{"bad user", "abc", "", http.StatusUnauthorized, domain.Actor{}},
		{"negative user", "-1", "", http.StatusUnauthorized, domain.Actor{}},
		{"unknown role", "42", "root", http.StatusBadRequest, domain.Actor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = domain.Actor{}
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				r.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				r.Header.Set(HeaderUserRole, tt.role)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.actor, got)
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m, "test"))
	router.HandleFunc("/reservations/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reservations/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/reservations/{id}", "404")))
}
