package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	BookingAttempts    *prometheus.CounterVec
	StatusTransitions  *prometheus.CounterVec
	RemindersPublished *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request latency",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "db_query_duration_seconds",
				Help:        "Database query latency",
				ConstLabels: constLabels,
				Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation", "status"},
		),
		DBOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_open_connections",
				Help:        "Number of established connections",
				ConstLabels: constLabels,
			},
			[]string{"db"},
		),
		DBInUse: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_in_use_connections",
				Help:        "Number of connections currently in use",
				ConstLabels: constLabels,
			},
			[]string{"db"},
		),
		DBIdle: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_idle_connections",
				Help:        "Number of idle connections",
				ConstLabels: constLabels,
			},
			[]string{"db"},
		),
		DBWaitCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_wait_count",
				Help:        "Total number of connections waited for",
				ConstLabels: constLabels,
			},
			[]string{"db"},
		),
		BookingAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "booking_attempts_total",
				Help:        "Reservation attempts by outcome",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		StatusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "reservation_transitions_total",
				Help:        "Reservation status transitions by action and outcome",
				ConstLabels: constLabels,
			},
			[]string{"action", "outcome"},
		),
		RemindersPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "reminders_published_total",
				Help:        "ReminderDue events by lead time and outcome",
				ConstLabels: constLabels,
			},
			[]string{"lead", "outcome"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.BookingAttempts,
		m.StatusTransitions,
		m.RemindersPublished,
	)

	return m
}

// IncBookingAttempt увеличивает счетчик попыток бронирования (nil-safe)
func (m *Metrics) IncBookingAttempt(outcome string) {
	if m == nil {
		return
	}
	m.BookingAttempts.WithLabelValues(outcome).Inc()
}

// IncTransition увеличивает счетчик переходов статуса (nil-safe)
func (m *Metrics) IncTransition(action, outcome string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(action, outcome).Inc()
}

// IncReminder увеличивает счетчик опубликованных напоминаний (nil-safe)
func (m *Metrics) IncReminder(lead, outcome string) {
	if m == nil {
		return
	}
	m.RemindersPublished.WithLabelValues(lead, outcome).Inc()
}
