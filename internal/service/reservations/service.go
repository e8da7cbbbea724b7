package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/reservations/models"
)

// Service сервис чтения записей для клиентов и мастеров
type Service struct {
	reservationRepo ReservationRepository
	resourceRepo    ResourceRepository
	storeTimeout    time.Duration
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	reservationRepo ReservationRepository,
	resourceRepo ResourceRepository,
	storeTimeout time.Duration,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		resourceRepo:    resourceRepo,
		storeTimeout:    storeTimeout,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Видеть запись могут её клиент, владелец ресурса и админ
func (s *Service) GetByID(ctx context.Context, id string, actor domain.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%s for user=%d", id, actor.UserID)

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%s not found", id)
			return nil, ErrReservationNotFound
		}
		return nil, s.repoError("GetByID", err)
	}

	if err := s.checkReservationAccess(ctx, res, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%s", actor.UserID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%s", id)
	return models.FromDomainReservation(res), nil
}

// GetUserReservations получает историю записей клиента
// Опционально фильтрует по статусу. Чужую историю видит только админ
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Actor.UserID != req.UserID && !req.Actor.IsAdmin() {
		s.logger.Warn("GetUserReservations: user=%d cannot read reservations of user=%d", req.Actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	list, err := s.reservationRepo.ListByCustomer(ctx, req.UserID, domainStatus)
	if err != nil {
		return nil, s.repoError("GetUserReservations", err)
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d", len(list), req.UserID)
	return models.FromDomainReservationList(list), nil
}

// GetResourceReservations получает записи мастера/кресла с фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных записей
// Доступно только владельцу ресурса и админу
func (s *Service) GetResourceReservations(ctx context.Context, req *models.GetResourceReservationsRequest) (*models.ReservationListResponse, error) {
	logMsg := fmt.Sprintf("GetResourceReservations: fetching reservations for resource=%d, user=%d", req.ResourceID, req.Actor.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetResourceReservations: invalid filter for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.checkOwnerAccess(ctx, req.ResourceID, req.Actor); err != nil {
		return nil, err
	}

	list, err := s.reservationRepo.ListByResource(ctx, filter)
	if err != nil {
		return nil, s.repoError("GetResourceReservations", err)
	}

	s.logger.Info("GetResourceReservations: successfully fetched %d reservations for resource=%d", len(list), req.ResourceID)
	return models.FromDomainReservationList(list), nil
}

// Вспомогательные методы

// checkReservationAccess клиент записи, владелец ресурса или админ
func (s *Service) checkReservationAccess(ctx context.Context, res *domain.Reservation, actor domain.Actor) error {
	if res.CustomerID == actor.UserID || actor.IsAdmin() {
		return nil
	}

	if err := s.checkOwnerAccess(ctx, res.ResourceID, actor); err != nil {
		if errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrResourceNotFound) {
			return ErrAccessDenied
		}
		return err
	}

	return nil
}

// checkOwnerAccess проверяет, что пользователь владелец ресурса или админ
func (s *Service) checkOwnerAccess(ctx context.Context, resourceID int64, actor domain.Actor) error {
	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("checkOwnerAccess: resource id=%d not found", resourceID)
			return ErrResourceNotFound
		}
		return s.repoError("checkOwnerAccess", err)
	}

	if actor.IsAdmin() || actor.Owns(resource) {
		return nil
	}

	s.logger.Warn("checkOwnerAccess: user=%d is not an owner of resource=%d", actor.UserID, resourceID)
	return ErrAccessDenied
}

func (s *Service) repoError(op string, err error) error {
	if reservationRepo.IsUnavailable(err) {
		s.logger.Error("%s: store unavailable: %v", op, err)
		return fmt.Errorf("%w: %s - store unavailable: %v", ErrUnavailable, op, err)
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
