package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.IncBookingAttempt("created")
	m.IncBookingAttempt("created")
	m.IncBookingAttempt("slot_taken")
	m.IncTransition("accept", "ok")
	m.IncReminder("30", "published")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingAttempts.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingAttempts.WithLabelValues("slot_taken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("accept", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemindersPublished.WithLabelValues("30", "published")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncBookingAttempt("created")
		m.IncTransition("accept", "ok")
		m.IncReminder("15", "failed")
	})
}
