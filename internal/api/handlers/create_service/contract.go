package create_service

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/service/resources/models"
)

type ResourceService interface {
	CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.Service, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
