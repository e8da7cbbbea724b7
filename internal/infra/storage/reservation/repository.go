package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
)

const tableReservations = "reservations"

var reservationColumns = []string{
	"id",
	"resource_id",
	"customer_id",
	"reservation_date",
	"start_time",
	"duration_minutes",
	"starts_at",
	"ends_at",
	"status",
	"service_ids",
	"total_price",
	"idempotency_key",
	"created_at",
	"updated_at",
}

// Repository журнал записей в PostgreSQL
type Repository struct {
	db        DBExecutor
	txManager TxManager
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor, txManager TxManager) *Repository {
	return &Repository{db: db, txManager: txManager}
}

// ListActive возвращает pending и accepted записи ресурса на дату, по времени начала.
// Читает без блокировок: результат может устареть, окончательная проверка - в TryReserve.
func (r *Repository) ListActive(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From(tableReservations).
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"reservation_date": date.Format(domain.DateFormat)}).
		Where(squirrel.Eq{"status": domain.StatusStrings(domain.ActiveStatuses)}).
		OrderBy("starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(ErrExecQuery, "ListActive - execute query", err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// TryReserve атомарно проверяет отсутствие пересечений и создаёт запись в статусе pending.
//
// Внутри одной serializable транзакции:
//  1. блокируется строка ресурса (конкурирующие TryReserve по ресурсу выстраиваются в очередь);
//  2. если передан ключ идемпотентности и запись по нему уже есть - она возвращается (replayed=true);
//  3. ищется активная запись, пересекающая [StartsAt, EndsAt) - при наличии возвращается *ConflictError;
//  4. вставляется новая запись.
//
// Ограничение reservations_no_overlap страхует проверку на уровне БД,
// его нарушение тоже отдаётся как *ConflictError.
func (r *Repository) TryReserve(ctx context.Context, candidate *domain.Reservation) (*domain.Reservation, bool, error) {
	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}

	var (
		result   *domain.Reservation
		replayed bool
	)

	err := r.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		result, replayed = nil, false

		if err := r.lockResource(ctx, candidate.ResourceID); err != nil {
			return err
		}

		if candidate.IdempotencyKey != nil {
			existing, err := r.GetByIdempotencyKey(ctx, candidate.CustomerID, *candidate.IdempotencyKey)
			switch {
			case err == nil:
				if !existing.SameRequest(candidate.ResourceID, candidate.Date, candidate.StartTime) {
					return ErrIdempotencyKeyReused
				}
				result, replayed = existing, true
				return nil
			case !errors.Is(err, ErrReservationNotFound):
				return err
			}
		}

		conflict, err := r.findOverlapping(ctx, candidate.ResourceID, candidate.Interval())
		if err != nil {
			return err
		}
		if conflict != nil {
			return NewConflictError(conflict)
		}

		created, err := r.insert(ctx, candidate)
		if err != nil {
			return err
		}
		result = created
		return nil
	})

	if err == nil {
		return result, replayed, nil
	}

	switch {
	case isConstraintViolation(err, pqExclusionViolation, noOverlapConstraint):
		return nil, false, r.conflictAfterViolation(ctx, candidate)
	case isConstraintViolation(err, pqUniqueViolation, idempotencyConstraint):
		return r.replayAfterViolation(ctx, candidate)
	case errors.Is(err, ErrSlotTaken),
		errors.Is(err, ErrIdempotencyKeyReused),
		errors.Is(err, ErrResourceNotFound):
		return nil, false, err
	}

	return nil, false, classify(ErrExecQuery, "TryReserve", err)
}

// Transition условное обновление статуса: UPDATE ... WHERE status IN (from).
// Если статус уже другой - *TransitionError с текущим статусом.
func (r *Repository) Transition(ctx context.Context, id string, from []domain.ReservationStatus, to domain.ReservationStatus) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableReservations).
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusStrings(from)}).
		Suffix("RETURNING " + strings.Join(reservationColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Transition - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, classify(ErrExecQuery, "Transition - execute update", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return nil, &TransitionError{ReservationID: id, Current: current.Status, Target: to}
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrReservationNotFound
	}

	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByIdempotencyKey получает запись клиента по ключу идемпотентности
func (r *Repository) GetByIdempotencyKey(ctx context.Context, customerID int64, key string) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByIdempotencyKey", squirrel.Eq{"customer_id": customerID, "idempotency_key": key})
}

// ListByCustomer записи клиента, новые первыми. Опционально фильтрует по статусу.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From(tableReservations).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("starts_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(ErrExecQuery, "ListByCustomer - execute query", err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListByResource записи ресурса с фильтрацией по периоду и статусу.
// Без статуса и IncludeInactive возвращает только активные.
// Для одной даты сортирует по времени начала, иначе новые первыми.
func (r *Repository) ListByResource(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From(tableReservations).
		Where(squirrel.Eq{"resource_id": filter.ResourceID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"reservation_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"reservation_date": filter.EndDate.Format(domain.DateFormat)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusStrings(domain.ActiveStatuses)})
	}

	if isSingleDay(filter) {
		selectBuilder = selectBuilder.OrderBy("starts_at ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("starts_at DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(ErrExecQuery, "ListByResource - execute query", err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListAcceptedStartingBetween accepted записи с началом в (from, to), по времени начала.
// Используется планировщиком напоминаний.
func (r *Repository) ListAcceptedStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From(tableReservations).
		Where(squirrel.Eq{"status": string(domain.StatusAccepted)}).
		Where(squirrel.Gt{"starts_at": from}).
		Where(squirrel.Lt{"starts_at": to}).
		OrderBy("starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAcceptedStartingBetween - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(ErrExecQuery, "ListAcceptedStartingBetween - execute query", err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// lockResource блокирует строку ресурса до конца транзакции
func (r *Repository) lockResource(ctx context.Context, resourceID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("resources").
		Where(squirrel.Eq{"id": resourceID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: lockResource - build select query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrResourceNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: lockResource - scan: %w", ErrExecQuery, err)
	}

	return nil
}

// findOverlapping первая активная запись, пересекающая интервал (полуинтервалы)
func (r *Repository) findOverlapping(ctx context.Context, resourceID int64, interval domain.Interval) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From(tableReservations).
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": domain.StatusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"starts_at": interval.End}).
		Where(squirrel.Gt{"ends_at": interval.Start}).
		OrderBy("starts_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: findOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	found, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: findOverlapping - scan: %w", ErrScanRow, err)
	}

	return found, nil
}

func (r *Repository) insert(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableReservations).
		Columns(
			"id",
			"resource_id",
			"customer_id",
			"reservation_date",
			"start_time",
			"duration_minutes",
			"starts_at",
			"ends_at",
			"status",
			"service_ids",
			"total_price",
			"idempotency_key",
		).
		Values(
			res.ID,
			res.ResourceID,
			res.CustomerID,
			res.Date.Format(domain.DateFormat),
			res.StartTime,
			res.DurationMinutes,
			res.StartsAt,
			res.EndsAt,
			string(domain.StatusPending),
			pq.Array(res.ServiceIDs),
			res.TotalPrice,
			res.IdempotencyKey,
		).
		Suffix("RETURNING " + strings.Join(reservationColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: insert - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: insert - execute insert: %w", ErrExecQuery, err)
	}

	return created, nil
}

// conflictAfterViolation дочитывает мешающую запись после срабатывания ограничения
func (r *Repository) conflictAfterViolation(ctx context.Context, candidate *domain.Reservation) error {
	conflict, err := r.findOverlapping(ctx, candidate.ResourceID, candidate.Interval())
	if err != nil || conflict == nil {
		return &ConflictError{}
	}
	return NewConflictError(conflict)
}

// replayAfterViolation параллельный запрос с тем же ключом успел первым
func (r *Repository) replayAfterViolation(ctx context.Context, candidate *domain.Reservation) (*domain.Reservation, bool, error) {
	existing, err := r.GetByIdempotencyKey(ctx, candidate.CustomerID, *candidate.IdempotencyKey)
	if err != nil {
		return nil, false, err
	}
	if !existing.SameRequest(candidate.ResourceID, candidate.Date, candidate.StartTime) {
		return nil, false, ErrIdempotencyKeyReused
	}
	return existing, true, nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From(tableReservations).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, classify(ErrScanRow, op+" - scan reservation", err)
	}

	return res, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res        domain.Reservation
		status     string
		serviceIDs pq.Int64Array
	)

	err := row.Scan(
		&res.ID,
		&res.ResourceID,
		&res.CustomerID,
		&res.Date,
		&res.StartTime,
		&res.DurationMinutes,
		&res.StartsAt,
		&res.EndsAt,
		&status,
		&serviceIDs,
		&res.TotalPrice,
		&res.IdempotencyKey,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Status = domain.ReservationStatus(status)
	res.ServiceIDs = []int64(serviceIDs)

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс записей
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(ErrScanRow, "scanReservations - rows error", err)
	}

	return reservations, nil
}

func isSingleDay(filter domain.ReservationFilter) bool {
	return filter.StartDate != nil && filter.EndDate != nil &&
		filter.StartDate.Format(domain.DateFormat) == filter.EndDate.Format(domain.DateFormat)
}
