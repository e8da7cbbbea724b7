package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

var due = domain.ReminderDue{
	ReservationID: "5b0c7c0e-4a39-4d38-9d0e-6b3f8a8f2a10",
	ResourceID:    1,
	CustomerID:    100,
	StartsAt:      time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	Lead:          domain.ReminderLead15,
}

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func TestAMQPPublisher_Notify(t *testing.T) {
	ch := &mockChannel{}
	ch.On("PublishWithContext", "salon.reservations", "reservation.reminder.15m", mock.MatchedBy(func(msg amqp.Publishing) bool {
		var body ReminderMessage
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return false
		}
		return msg.ContentType == "application/json" &&
			msg.DeliveryMode == amqp.Persistent &&
			body.Event == EventReminderDue &&
			body.ReservationID == due.ReservationID &&
			body.LeadMinutes == 15 &&
			body.StartsAt.Equal(due.StartsAt)
	})).Return(nil).Once()
	ch.On("Close").Return(nil).Once()

	p := &AMQPPublisher{ch: ch, exchange: "salon.reservations", log: logger.NewNop()}
	require.NoError(t, p.Notify(context.Background(), due))
	require.NoError(t, p.Close())

	ch.AssertExpectations(t)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &mockChannel{}
	ch.On("PublishWithContext", "salon.reservations", "reservation.reminder.15m", mock.Anything).
		Return(amqp.ErrClosed).Once()

	p := &AMQPPublisher{ch: ch, exchange: "salon.reservations", log: logger.NewNop()}
	err := p.Notify(context.Background(), due)
	assert.ErrorIs(t, err, ErrPublish)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "reservation.reminder.30m", RoutingKey(domain.ReminderLead30))
	assert.Equal(t, "reservation.reminder.15m", RoutingKey(domain.ReminderLead15))
}

func TestWebhookClient_Notify(t *testing.T) {
	var got ReminderMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, EventReminderDue, r.Header.Get("X-Event-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL, time.Second, logger.NewNop())
	require.NoError(t, client.Notify(context.Background(), due))

	assert.Equal(t, due.ReservationID, got.ReservationID)
	assert.Equal(t, int64(100), got.CustomerID)
	assert.Equal(t, 15, got.LeadMinutes)
}

func TestWebhookClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	client := NewWebhookClient(server.URL, time.Second, logger.NewNop())
	err := client.Notify(context.Background(), due)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	server.Close()
	err = client.Notify(context.Background(), due)
	assert.True(t, errors.Is(err, ErrInternal))
}
