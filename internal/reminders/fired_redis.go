package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// RedisFiredStore отметки в Redis (SET NX + TTL), общие для всех реплик сервиса
type RedisFiredStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisFiredStore создает хранилище отметок в Redis
func NewRedisFiredStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisFiredStore {
	return &RedisFiredStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisFiredStore) Mark(ctx context.Context, reservationID string, lead domain.ReminderLead) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(reservationID, lead), time.Now().Unix(), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: Mark - setnx: %w", ErrFiredStore, err)
	}
	return ok, nil
}

func (s *RedisFiredStore) Release(ctx context.Context, reservationID string, lead domain.ReminderLead) error {
	if err := s.client.Del(ctx, s.key(reservationID, lead)).Err(); err != nil {
		return fmt.Errorf("%w: Release - del: %w", ErrFiredStore, err)
	}
	return nil
}

func (s *RedisFiredStore) key(reservationID string, lead domain.ReminderLead) string {
	return fmt.Sprintf("%s:%s", s.prefix, firedKey(reservationID, lead))
}
