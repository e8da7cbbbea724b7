package resource

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/txmanager"
)

func newRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped, txmanager.NewTransactionManager(wrapped)), mock
}

func TestGetService(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery(`FROM services WHERE id = \$1 AND resource_id = \$2`).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows(serviceColumns).AddRow(int64(10), int64(1), "Haircut", 20.0, int64(30), true))

	spec, err := repo.GetService(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceSpec{ID: 10, ResourceID: 1, Name: "Haircut", Price: 20, DurationMinutes: 30, Active: true}, *spec)

	mock.ExpectQuery(`FROM services WHERE id = \$1 AND resource_id = \$2`).
		WithArgs(int64(11), int64(1)).
		WillReturnRows(sqlmock.NewRows(serviceColumns))

	_, err = repo.GetService(context.Background(), 1, 11)
	assert.ErrorIs(t, err, ErrServiceNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateService(t *testing.T) {
	repo, mock := newRepository(t)
	spec := domain.ServiceSpec{ResourceID: 1, Name: "Beard trim", Price: 12.5, DurationMinutes: 20, Active: true}

	mock.ExpectQuery(`INSERT INTO services \(resource_id,name,price,duration_minutes,active\) VALUES \(\$1,\$2,\$3,\$4,\$5\) RETURNING id`).
		WithArgs(int64(1), "Beard trim", 12.5, int64(20), true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	created, err := repo.CreateService(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, int64(12), created.ID)
	assert.Equal(t, "Beard trim", created.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateService_UnknownResource(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery(`INSERT INTO services`).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation, Constraint: "services_resource_id_fkey"})

	_, err := repo.CreateService(context.Background(), domain.ServiceSpec{ResourceID: 9, Name: "x", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrResourceNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateService(t *testing.T) {
	repo, mock := newRepository(t)
	spec := domain.ServiceSpec{ID: 10, ResourceID: 1, Name: "Haircut", Price: 25, DurationMinutes: 45, Active: false}

	mock.ExpectExec(`UPDATE services SET name = \$1, price = \$2, duration_minutes = \$3, active = \$4 WHERE id = \$5 AND resource_id = \$6`).
		WithArgs("Haircut", 25.0, int64(45), false, int64(10), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.UpdateService(context.Background(), spec)
	require.NoError(t, err)
	assert.False(t, updated.Active)

	mock.ExpectExec(`UPDATE services`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = repo.UpdateService(context.Background(), domain.ServiceSpec{ID: 99, ResourceID: 1, Name: "x", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrServiceNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
