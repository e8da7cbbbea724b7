package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	bookReservationHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/book_reservation"
	createServiceHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/create_service"
	deactivateServiceHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/deactivate_service"
	getBookableSlotsHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_bookable_slots"
	getReservationHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_reservation"
	getResourceReservationsHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_resource_reservations"
	getScheduleHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_schedule"
	getUserReservationsHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_user_reservations"
	transitionReservationHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/transition_reservation"
	updateScheduleHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/update_schedule"
	updateServiceHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/update_service"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/config"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/memory"
	reservationRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/notifications"
	"github.com/m04kA/SMC-SalonBookingService/internal/reminders"
	reservationsService "github.com/m04kA/SMC-SalonBookingService/internal/service/reservations"
	resourcesService "github.com/m04kA/SMC-SalonBookingService/internal/service/resources"
	bookReservationUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/book_reservation"
	getBookableSlotsUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_bookable_slots"
	transitionReservationUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/transition_reservation"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/txmanager"
)

// ledger полный контракт хранилища записей: его реализуют
// reservation.Repository (PostgreSQL) и memory.Ledger
type ledger interface {
	ListActive(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error)
	TryReserve(ctx context.Context, candidate *domain.Reservation) (*domain.Reservation, bool, error)
	Transition(ctx context.Context, id string, from []domain.ReservationStatus, to domain.ReservationStatus) (*domain.Reservation, error)
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	GetByIdempotencyKey(ctx context.Context, customerID int64, key string) (*domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	ListByResource(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	ListAcceptedStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error)
}

// catalog контракт хранилища ресурсов и услуг
type catalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	GetServices(ctx context.Context, resourceID int64, onlyActive bool) ([]domain.ServiceSpec, error)
	UpdateSchedule(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	GetService(ctx context.Context, resourceID, serviceID int64) (*domain.ServiceSpec, error)
	CreateService(ctx context.Context, spec domain.ServiceSpec) (*domain.ServiceSpec, error)
	UpdateService(ctx context.Context, spec domain.ServiceSpec) (*domain.ServiceSpec, error)
}

// domainMetrics счётчики записей, переходов и напоминаний (*metrics.Metrics)
type domainMetrics interface {
	IncBookingAttempt(outcome string)
	IncTransition(action, outcome string)
	IncReminder(lead, outcome string)
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonBookingService...")
	log.Info("Configuration loaded from config.toml (storage=%s)", cfg.Storage.Driver)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилища
	var (
		reservationStore ledger
		resourceStore    catalog
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Storage.Timeout())
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		// metricsCollector == nil: обёртка только прокидывает вызовы
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
		txMgr := txmanager.NewTransactionManager(wrappedDB, txmanager.WithMaxRetries(cfg.Storage.MaxRetries))

		reservationStore = reservationRepo.NewRepository(wrappedDB, txMgr)
		resourceStore = resourceRepo.NewRepository(wrappedDB, txMgr)

	case config.StorageDriverMemory:
		resources := memory.NewCatalog()
		seedDemoCatalog(resources)

		reservationStore = memory.NewLedger(resources)
		resourceStore = resources
		log.Warn("In-memory storage is used: data is lost on restart")
	}

	storeTimeout := cfg.Storage.Timeout()

	// Метрики use cases (nil - без метрик)
	var ucMetrics domainMetrics
	if metricsCollector != nil {
		ucMetrics = metricsCollector
	}

	// Инициализируем сервисы
	reservationsSvc := reservationsService.NewService(reservationStore, resourceStore, storeTimeout, log)
	resourcesSvc := resourcesService.NewService(resourceStore, storeTimeout, log)

	// Инициализируем use cases
	getBookableSlotsUseCase := getBookableSlotsUC.NewUseCase(reservationStore, resourceStore, storeTimeout, log)
	bookReservationUseCase := bookReservationUC.NewUseCase(reservationStore, resourceStore, ucMetrics, storeTimeout, log)
	transitionReservationUseCase := transitionReservationUC.NewUseCase(reservationStore, resourceStore, ucMetrics, storeTimeout, log)

	// Планировщик напоминаний
	var scheduler *reminders.Scheduler
	if cfg.Reminders.Enabled {
		fired, closeFired := newFiredStore(cfg, log)
		defer closeFired()

		notifier, closeNotifier := newNotifier(cfg, log)
		defer closeNotifier()

		scheduler, err = reminders.NewScheduler(
			reminders.Config{
				PollInterval: cfg.Reminders.Interval(),
				StoreTimeout: storeTimeout,
				RateLimit:    cfg.Reminders.RateLimit,
				Burst:        cfg.Reminders.Burst,
			},
			reservationStore,
			fired,
			notifier,
			ucMetrics,
			log,
		)
		if err != nil {
			log.Fatal("Failed to create reminder scheduler: %v", err)
		}

		scheduler.Start(context.Background())
		log.Info("Reminder scheduler started (poll=%s, fired_store=%s, notifier=%s)",
			cfg.Reminders.Interval(), cfg.Reminders.FiredStore, cfg.Reminders.Notifier)
	}

	// Инициализируем handlers
	getBookableSlots := getBookableSlotsHandler.NewHandler(getBookableSlotsUseCase, log)
	bookReservation := bookReservationHandler.NewHandler(bookReservationUseCase, log)
	transitionReservation := transitionReservationHandler.NewHandler(transitionReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationsSvc, log)
	getResourceReservations := getResourceReservationsHandler.NewHandler(reservationsSvc, log)
	getSchedule := getScheduleHandler.NewHandler(resourcesSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(resourcesSvc, log)
	createService := createServiceHandler.NewHandler(resourcesSvc, log)
	updateService := updateServiceHandler.NewHandler(resourcesSvc, log)
	deactivateService := deactivateServiceHandler.NewHandler(resourcesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка слотов на день с доступностью
	api.HandleFunc("/resources/{resourceId}/slots", getBookableSlots.Handle).Methods(http.MethodGet)

	// Расписание и услуги мастера
	api.HandleFunc("/resources/{resourceId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/reservations", bookReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/transitions", transitionReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Управление мастером (владелец или админ) ---
	protected.HandleFunc("/resources/{resourceId}/reservations", getResourceReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/resources/{resourceId}/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId}/services/{serviceId}", updateService.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/resources/{resourceId}/services/{serviceId}", deactivateService.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if scheduler != nil {
		scheduler.Stop()
		log.Info("Reminder scheduler stopped")
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// newFiredStore создает хранилище отметок об отправленных напоминаниях
func newFiredStore(cfg *config.Config, log *logger.Logger) (reminders.FiredStore, func()) {
	ttl := cfg.Reminders.FiredTTLDuration()

	if cfg.Reminders.FiredStore != config.FiredStoreRedis {
		return reminders.NewMemoryFiredStore(ttl), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Storage.Timeout())
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
	}
	log.Info("Reminder fired store: redis at %s (prefix=%s)", cfg.Redis.Addr, cfg.Redis.KeyPrefix)

	return reminders.NewRedisFiredStore(client, cfg.Redis.KeyPrefix, ttl), func() {
		if err := client.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}
}

// newNotifier создает получателя событий ReminderDue
func newNotifier(cfg *config.Config, log *logger.Logger) (reminders.Notifier, func()) {
	switch cfg.Reminders.Notifier {
	case config.NotifierAMQP:
		publisher, err := notifications.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to AMQP broker: %v", err)
		}
		log.Info("Reminder notifier: AMQP exchange %s", cfg.AMQP.Exchange)
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				log.Error("Failed to close AMQP publisher: %v", err)
			}
		}

	case config.NotifierWebhook:
		log.Info("Reminder notifier: webhook %s", cfg.Webhook.URL)
		return notifications.NewWebhookClient(cfg.Webhook.URL, time.Duration(cfg.Webhook.Timeout)*time.Second, log), func() {}

	default:
		return reminders.NewLogNotifier(log), func() {}
	}
}
