package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// AMQPPublisher публикует ReminderDue в topic exchange
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	log      Logger
}

// NewAMQPPublisher подключается к брокеру и объявляет durable topic exchange
func NewAMQPPublisher(url, exchange string, log Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}

	log.Info("AMQP publisher connected, exchange=%s", exchange)
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, log: log}, nil
}

// Notify публикует напоминание с ключом reservation.reminder.<lead>m
func (p *AMQPPublisher) Notify(ctx context.Context, due domain.ReminderDue) error {
	body, err := json.Marshal(FromDomainReminder(due))
	if err != nil {
		return fmt.Errorf("%w: failed to encode message: %v", ErrInternal, err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(due.Lead), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("%s:%d", due.ReservationID, due.Lead),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	return nil
}

// Close закрывает канал и соединение
func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
