package reminders

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Исходы отправки для метрик
const (
	outcomeSent    = "sent"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

// Config настройки планировщика
type Config struct {
	// PollInterval период опроса, (0, 60s]
	PollInterval time.Duration
	// StoreTimeout таймаут одного обращения к хранилищу
	StoreTimeout time.Duration
	// RateLimit событий в секунду, Burst - размер всплеска
	RateLimit float64
	Burst     int
}

// DefaultConfig возвращает настройки по умолчанию
func DefaultConfig() Config {
	return Config{
		PollInterval: time.Minute,
		StoreTimeout: 3 * time.Second,
		RateLimit:    20,
		Burst:        5,
	}
}

// Validate проверяет настройки
func (c Config) Validate() error {
	if c.PollInterval <= 0 || c.PollInterval > time.Minute {
		return fmt.Errorf("%w: poll interval must be in (0, 1m], got %s", ErrInvalidConfig, c.PollInterval)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("%w: store timeout must be positive", ErrInvalidConfig)
	}
	if c.RateLimit <= 0 || c.Burst <= 0 {
		return fmt.Errorf("%w: rate limit and burst must be positive", ErrInvalidConfig)
	}
	return nil
}

// Scheduler периодически ищет подтверждённые записи, до начала которых осталось
// не больше 30 минут, и публикует ReminderDue за 30 и за 15 минут, каждое не более одного раза.
type Scheduler struct {
	config       Config
	source       ReservationSource
	fired        FiredStore
	notifier     Notifier
	limiter      *rate.Limiter
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduler создает планировщик напоминаний. metrics может быть nil.
func NewScheduler(
	config Config,
	source ReservationSource,
	fired FiredStore,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Scheduler{
		config:       config,
		source:       source,
		fired:        fired,
		notifier:     notifier,
		limiter:      rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst),
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}, nil
}

// WithTimeProvider подменяет источник времени
func (s *Scheduler) WithTimeProvider(tp TimeProvider) *Scheduler {
	s.timeProvider = tp
	return s
}

// Start запускает цикл опроса в отдельной горутине
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.loop(ctx, s.stopCh, s.doneCh)
}

// Stop останавливает цикл и ждёт завершения текущего опроса
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	<-done
}

func (s *Scheduler) loop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	s.logger.Info("Reminders: scheduler started, poll interval %s", s.config.PollInterval)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	// Первый опрос сразу: после рестарта не ждём целый интервал
	s.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reminders: scheduler stopped by context")
			return
		case <-stopCh:
			s.logger.Info("Reminders: scheduler stopped")
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *Scheduler) poll(ctx context.Context) {
	if _, err := s.Evaluate(ctx, s.timeProvider.Now()); err != nil {
		s.logger.Error("Reminders: poll failed: %v", err)
	}
}

// Evaluate выполняет один опрос на момент now и возвращает опубликованные события.
// Ошибка возвращается только если не удалось получить записи; сбои отдельных
// напоминаний логируются, их отметки снимаются для повтора на следующем опросе.
func (s *Scheduler) Evaluate(ctx context.Context, now time.Time) ([]domain.ReminderDue, error) {
	loadCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	upcoming, err := s.source.ListAcceptedStartingBetween(loadCtx, now, now.Add(lookahead))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadReservations, err)
	}

	sent := make([]domain.ReminderDue, 0)
	for _, res := range upcoming {
		if ctx.Err() != nil {
			s.logger.Warn("Reminders: poll interrupted: %v", ctx.Err())
			break
		}

		lead, ok := LeadFor(MinutesUntil(res.StartsAt, now))
		if !ok {
			continue
		}

		due := domain.ReminderDue{
			ReservationID: res.ID,
			ResourceID:    res.ResourceID,
			CustomerID:    res.CustomerID,
			StartsAt:      res.StartsAt,
			Lead:          lead,
		}
		if s.fire(ctx, due) {
			sent = append(sent, due)
		}
	}

	return sent, nil
}

// fire публикует одно напоминание, если его отметку удалось поставить
func (s *Scheduler) fire(ctx context.Context, due domain.ReminderDue) bool {
	leadLabel := strconv.Itoa(int(due.Lead))

	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	marked, err := s.fired.Mark(storeCtx, due.ReservationID, due.Lead)
	if err != nil {
		s.logger.Error("Reminders: failed to mark reservation=%s lead=%dm: %v", due.ReservationID, due.Lead, err)
		s.metrics.IncReminder(leadLabel, outcomeFailed)
		return false
	}
	if !marked {
		s.metrics.IncReminder(leadLabel, outcomeSkipped)
		return false
	}

	if err := s.publish(ctx, due); err != nil {
		s.logger.Error("Reminders: failed to publish reservation=%s lead=%dm: %v", due.ReservationID, due.Lead, err)
		s.metrics.IncReminder(leadLabel, outcomeFailed)

		releaseCtx, cancelRelease := context.WithTimeout(context.WithoutCancel(ctx), s.config.StoreTimeout)
		defer cancelRelease()
		if err := s.fired.Release(releaseCtx, due.ReservationID, due.Lead); err != nil {
			s.logger.Error("Reminders: failed to release mark reservation=%s lead=%dm: %v", due.ReservationID, due.Lead, err)
		}
		return false
	}

	s.logger.Info("Reminders: published reservation=%s lead=%dm", due.ReservationID, due.Lead)
	s.metrics.IncReminder(leadLabel, outcomeSent)
	return true
}

func (s *Scheduler) publish(ctx context.Context, due domain.ReminderDue) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", ErrNotify, err)
	}

	notifyCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	if err := s.notifier.Notify(notifyCtx, due); err != nil {
		return fmt.Errorf("%w: %w", ErrNotify, err)
	}
	return nil
}
