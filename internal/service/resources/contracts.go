package resources

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	GetServices(ctx context.Context, resourceID int64, onlyActive bool) ([]domain.ServiceSpec, error)
	UpdateSchedule(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	GetService(ctx context.Context, resourceID, serviceID int64) (*domain.ServiceSpec, error)
	CreateService(ctx context.Context, spec domain.ServiceSpec) (*domain.ServiceSpec, error)
	UpdateService(ctx context.Context, spec domain.ServiceSpec) (*domain.ServiceSpec, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
