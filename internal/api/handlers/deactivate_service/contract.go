package deactivate_service

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources/models"
)

type ResourceService interface {
	DeactivateService(ctx context.Context, actor domain.Actor, resourceID, serviceID int64) (*models.Service, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
