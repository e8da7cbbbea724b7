package reservation

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// TxManager выполняет функцию в serializable транзакции.
// Повторы при конфликте сериализации - забота менеджера.
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}
