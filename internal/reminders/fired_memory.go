package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// MemoryFiredStore отметки в памяти процесса, подходит для одной реплики.
// Отметка живёт ttl, после чего удаляется при следующем Mark.
type MemoryFiredStore struct {
	mu           sync.Mutex
	marks        map[string]time.Time
	ttl          time.Duration
	timeProvider TimeProvider
}

// NewMemoryFiredStore создает хранилище отметок в памяти
func NewMemoryFiredStore(ttl time.Duration) *MemoryFiredStore {
	return &MemoryFiredStore{
		marks:        make(map[string]time.Time),
		ttl:          ttl,
		timeProvider: &RealTimeProvider{},
	}
}

// WithTimeProvider подменяет источник времени
func (s *MemoryFiredStore) WithTimeProvider(tp TimeProvider) *MemoryFiredStore {
	s.timeProvider = tp
	return s
}

func (s *MemoryFiredStore) Mark(ctx context.Context, reservationID string, lead domain.ReminderLead) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeProvider.Now()
	for key, expiresAt := range s.marks {
		if !now.Before(expiresAt) {
			delete(s.marks, key)
		}
	}

	key := firedKey(reservationID, lead)
	if _, ok := s.marks[key]; ok {
		return false, nil
	}
	s.marks[key] = now.Add(s.ttl)
	return true, nil
}

func (s *MemoryFiredStore) Release(ctx context.Context, reservationID string, lead domain.ReminderLead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.marks, firedKey(reservationID, lead))
	return nil
}

func firedKey(reservationID string, lead domain.ReminderLead) string {
	return fmt.Sprintf("%s:%d", reservationID, lead)
}
