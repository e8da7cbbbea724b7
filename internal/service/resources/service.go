package resources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources/models"
)

// Service сервис для администрирования расписания мастеров и кресел
type Service struct {
	resourceRepo ResourceRepository
	storeTimeout time.Duration
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(resourceRepo ResourceRepository, storeTimeout time.Duration, logger Logger) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// GetSchedule получает политику расписания и активные услуги ресурса
// Публичный метод - доступен всем
func (s *Service) GetSchedule(ctx context.Context, resourceID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for resource=%d", resourceID)

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	res, err := s.getResource(ctx, "GetSchedule", resourceID)
	if err != nil {
		return nil, err
	}

	services, err := s.resourceRepo.GetServices(ctx, resourceID, true)
	if err != nil {
		return nil, s.repoError("GetSchedule", err)
	}

	return models.FromDomainResource(res, services), nil
}

// UpdateSchedule обновляет политику расписания
// Доступно только владельцу ресурса и админу.
// Уже созданные записи не пересматриваются: новая сетка применяется к следующим запросам.
func (s *Service) UpdateSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule for resource=%d by user=%d", req.ResourceID, req.Actor.UserID)

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	// 1-2. Получаем ресурс и проверяем права доступа
	res, err := s.checkOwnerAccess(ctx, "UpdateSchedule", req.ResourceID, req.Actor)
	if err != nil {
		return nil, err
	}

	// 3. Применяем и валидируем изменения
	updated, err := req.ApplyTo(res)
	if err != nil {
		s.logger.Warn("UpdateSchedule: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.validateSchedule(updated); err != nil {
		s.logger.Warn("UpdateSchedule: validation failed: %v", err)
		return nil, err
	}

	// 4. Сохраняем
	saved, err := s.resourceRepo.UpdateSchedule(ctx, updated)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, s.repoError("UpdateSchedule", err)
	}

	services, err := s.resourceRepo.GetServices(ctx, saved.ID, true)
	if err != nil {
		return nil, s.repoError("UpdateSchedule", err)
	}

	s.logger.Info("UpdateSchedule: successfully updated schedule for resource=%d", saved.ID)
	return models.FromDomainResource(saved, services), nil
}

// CreateService добавляет услугу ресурсу
// Доступно только владельцу ресурса и админу
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.Service, error) {
	s.logger.Info("CreateService: resource=%d, name=%q by user=%d", req.ResourceID, req.Name, req.Actor.UserID)

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.checkOwnerAccess(ctx, "CreateService", req.ResourceID, req.Actor); err != nil {
		return nil, err
	}

	spec := req.ToDomain()
	if err := validateService(spec); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}

	created, err := s.resourceRepo.CreateService(ctx, spec)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, s.repoError("CreateService", err)
	}

	s.logger.Info("CreateService: created service id=%d for resource=%d", created.ID, created.ResourceID)
	resp := models.FromDomainService(*created)
	return &resp, nil
}

// UpdateService частично обновляет услугу: название, цену, длительность, активность.
// Уже созданные записи хранят свою длительность и цену и не пересчитываются.
func (s *Service) UpdateService(ctx context.Context, req *models.UpdateServiceRequest) (*models.Service, error) {
	s.logger.Info("UpdateService: resource=%d, service=%d by user=%d", req.ResourceID, req.ServiceID, req.Actor.UserID)

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.checkOwnerAccess(ctx, "UpdateService", req.ResourceID, req.Actor); err != nil {
		return nil, err
	}

	current, err := s.getService(ctx, "UpdateService", req.ResourceID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	updated := req.ApplyTo(*current)
	if err := validateService(updated); err != nil {
		s.logger.Warn("UpdateService: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.saveService(ctx, "UpdateService", updated)
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateService: successfully updated service id=%d", saved.ID)
	resp := models.FromDomainService(*saved)
	return &resp, nil
}

// DeactivateService снимает услугу с продажи. Услуга не удаляется:
// на неё ссылаются уже созданные записи.
func (s *Service) DeactivateService(ctx context.Context, actor domain.Actor, resourceID, serviceID int64) (*models.Service, error) {
	s.logger.Info("DeactivateService: resource=%d, service=%d by user=%d", resourceID, serviceID, actor.UserID)

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.checkOwnerAccess(ctx, "DeactivateService", resourceID, actor); err != nil {
		return nil, err
	}

	current, err := s.getService(ctx, "DeactivateService", resourceID, serviceID)
	if err != nil {
		return nil, err
	}

	if current.Active {
		current.Active = false
		if current, err = s.saveService(ctx, "DeactivateService", *current); err != nil {
			return nil, err
		}
	}

	resp := models.FromDomainService(*current)
	return &resp, nil
}

// Вспомогательные методы

// checkOwnerAccess получает ресурс и проверяет, что пользователь его владелец или админ
func (s *Service) checkOwnerAccess(ctx context.Context, op string, resourceID int64, actor domain.Actor) (*domain.Resource, error) {
	res, err := s.getResource(ctx, op, resourceID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !actor.Owns(res) {
		s.logger.Warn("%s: user=%d is not an owner of resource=%d", op, actor.UserID, resourceID)
		return nil, ErrAccessDenied
	}

	return res, nil
}

func (s *Service) getService(ctx context.Context, op string, resourceID, serviceID int64) (*domain.ServiceSpec, error) {
	spec, err := s.resourceRepo.GetService(ctx, resourceID, serviceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d of resource=%d not found", op, serviceID, resourceID)
			return nil, ErrServiceNotFound
		}
		return nil, s.repoError(op, err)
	}
	return spec, nil
}

func (s *Service) saveService(ctx context.Context, op string, spec domain.ServiceSpec) (*domain.ServiceSpec, error) {
	saved, err := s.resourceRepo.UpdateService(ctx, spec)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, s.repoError(op, err)
	}
	return saved, nil
}

// validateService валидирует параметры услуги
func validateService(spec domain.ServiceSpec) error {
	if spec.Name == "" || len(spec.Name) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}

	if spec.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if spec.DurationMinutes < 1 || spec.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between 1 and %d",
			ErrInvalidInput, domain.MaxServiceDurationMinutes)
	}

	return nil
}

func (s *Service) getResource(ctx context.Context, op string, id int64) (*domain.Resource, error) {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%d not found", op, id)
			return nil, ErrResourceNotFound
		}
		return nil, s.repoError(op, err)
	}
	return res, nil
}

// validateSchedule валидирует параметры политики
func (s *Service) validateSchedule(res *domain.Resource) error {
	if _, err := res.Location(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if res.SlotGranularityMinutes < domain.MinSlotGranularityMinutes || res.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	if res.AdvanceBookingDays < domain.MinAdvanceBookingDays || res.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if res.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || res.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	if err := res.WorkingHours.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}

func (s *Service) repoError(op string, err error) error {
	if reservationRepo.IsUnavailable(err) {
		s.logger.Error("%s: store unavailable: %v", op, err)
		return fmt.Errorf("%w: %s - store unavailable: %v", ErrUnavailable, op, err)
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
