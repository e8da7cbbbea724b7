package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

const pqForeignKeyViolation = "23503"

var serviceColumns = []string{"id", "resource_id", "name", "price", "duration_minutes", "active"}

// Repository ресурсы (мастера, кресла), их расписание и услуги
type Repository struct {
	db        DBExecutor
	txManager TxManager
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor, txManager TxManager) *Repository {
	return &Repository{db: db, txManager: txManager}
}

// GetByID получает ресурс вместе с недельным расписанием и перерывами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_user_id",
		"name",
		"kind",
		"timezone",
		"slot_granularity_minutes",
		"advance_booking_days",
		"min_booking_notice_minutes",
		"created_at",
		"updated_at",
	).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		res  domain.Resource
		kind string
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&res.OwnerUserID,
		&res.Name,
		&kind,
		&res.Timezone,
		&res.SlotGranularityMinutes,
		&res.AdvanceBookingDays,
		&res.MinBookingNoticeMinutes,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %w", ErrScanRow, err)
	}
	res.Kind = domain.ResourceKind(kind)

	hours, err := r.getWorkingHours(ctx, id)
	if err != nil {
		return nil, err
	}
	res.WorkingHours = hours

	return &res, nil
}

// GetServices получает услуги ресурса. onlyActive отбрасывает отключённые.
func (r *Repository) GetServices(ctx context.Context, resourceID int64, onlyActive bool) ([]domain.ServiceSpec, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("id ASC")

	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.ServiceSpec, 0)
	for rows.Next() {
		var s domain.ServiceSpec
		if err := rows.Scan(&s.ID, &s.ResourceID, &s.Name, &s.Price, &s.DurationMinutes, &s.Active); err != nil {
			return nil, fmt.Errorf("%w: GetServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServices - rows error: %w", ErrScanRow, err)
	}

	return services, nil
}

// GetService получает услугу ресурса
func (r *Repository) GetService(ctx context.Context, resourceID, serviceID int64) (*domain.ServiceSpec, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "resource_id": resourceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.ServiceSpec
	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.ResourceID, &s.Name, &s.Price, &s.DurationMinutes, &s.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}

	return &s, nil
}

// CreateService добавляет услугу ресурсу, ID назначает база
func (r *Repository) CreateService(ctx context.Context, spec domain.ServiceSpec) (*domain.ServiceSpec, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns("resource_id", "name", "price", "duration_minutes", "active").
		Values(spec.ResourceID, spec.Name, spec.Price, spec.DurationMinutes, spec.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&spec.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("%w: CreateService - insert service: %w", ErrExecQuery, err)
	}

	return &spec, nil
}

// UpdateService перезаписывает поля услуги (название, цена, длительность, активность)
func (r *Repository) UpdateService(ctx context.Context, spec domain.ServiceSpec) (*domain.ServiceSpec, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("services").
		Set("name", spec.Name).
		Set("price", spec.Price).
		Set("duration_minutes", spec.DurationMinutes).
		Set("active", spec.Active).
		Where(squirrel.Eq{"id": spec.ID, "resource_id": spec.ResourceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateService - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateService - execute update: %w", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateService - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrServiceNotFound
	}

	return &spec, nil
}

// UpdateSchedule обновляет политику ресурса и заменяет недельное расписание целиком
func (r *Repository) UpdateSchedule(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		executor := dbmetrics.GetExecutor(ctx, r.db)

		query, args, err := psqlbuilder.Update("resources").
			Set("timezone", res.Timezone).
			Set("slot_granularity_minutes", res.SlotGranularityMinutes).
			Set("advance_booking_days", res.AdvanceBookingDays).
			Set("min_booking_notice_minutes", res.MinBookingNoticeMinutes).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": res.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: UpdateSchedule - execute update: %w", ErrExecQuery, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: UpdateSchedule - get rows affected: %w", ErrExecQuery, err)
		}
		if rowsAffected == 0 {
			return ErrResourceNotFound
		}

		return r.replaceWorkingHours(ctx, res.ID, res.WorkingHours)
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, res.ID)
}

func (r *Repository) replaceWorkingHours(ctx context.Context, resourceID int64, hours domain.WorkingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, table := range []string{"resource_breaks", "resource_working_hours"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"resource_id": resourceID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: replaceWorkingHours - build delete query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: replaceWorkingHours - delete %s: %w", ErrExecQuery, table, err)
		}
	}

	hoursInsert := psqlbuilder.Insert("resource_working_hours").
		Columns("resource_id", "weekday", "is_open", "open_time", "close_time")
	breaksInsert := psqlbuilder.Insert("resource_breaks").
		Columns("resource_id", "weekday", "start_time", "end_time")
	hasBreaks := false

	for day, schedule := range hours {
		var openTime, closeTime interface{}
		if schedule.Open {
			openTime, closeTime = schedule.OpenTime, schedule.CloseTime
		}
		hoursInsert = hoursInsert.Values(resourceID, day, schedule.Open, openTime, closeTime)

		if !schedule.Open {
			continue
		}
		for _, b := range schedule.Breaks {
			breaksInsert = breaksInsert.Values(resourceID, day, b.Start, b.End)
			hasBreaks = true
		}
	}

	query, args, err := hoursInsert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWorkingHours - build hours insert: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceWorkingHours - insert hours: %w", ErrExecQuery, err)
	}

	if !hasBreaks {
		return nil
	}

	query, args, err = breaksInsert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWorkingHours - build breaks insert: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceWorkingHours - insert breaks: %w", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getWorkingHours(ctx context.Context, resourceID int64) (domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	var hours domain.WorkingHours

	query, args, err := psqlbuilder.Select("weekday", "is_open", "open_time", "close_time").
		From("resource_working_hours").
		Where(squirrel.Eq{"resource_id": resourceID}).
		ToSql()
	if err != nil {
		return hours, fmt.Errorf("%w: getWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return hours, fmt.Errorf("%w: getWorkingHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			weekday             int
			open                bool
			openTime, closeTime types.TimeString
		)
		if err := rows.Scan(&weekday, &open, &openTime, &closeTime); err != nil {
			return hours, fmt.Errorf("%w: getWorkingHours - scan row: %v", ErrScanRow, err)
		}
		if weekday < 0 || weekday > int(time.Saturday) {
			continue
		}
		hours[weekday] = domain.DaySchedule{Open: open, OpenTime: openTime, CloseTime: closeTime}
	}
	if err := rows.Err(); err != nil {
		return hours, fmt.Errorf("%w: getWorkingHours - rows error: %w", ErrScanRow, err)
	}

	breaks, err := r.getBreaks(ctx, resourceID)
	if err != nil {
		return hours, err
	}
	for weekday, list := range breaks {
		hours[weekday].Breaks = list
	}

	return hours, nil
}

func (r *Repository) getBreaks(ctx context.Context, resourceID int64) (map[int][]domain.BreakWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "start_time", "end_time").
		From("resource_breaks").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getBreaks - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make(map[int][]domain.BreakWindow)
	for rows.Next() {
		var (
			weekday int
			b       domain.BreakWindow
		)
		if err := rows.Scan(&weekday, &b.Start, &b.End); err != nil {
			return nil, fmt.Errorf("%w: getBreaks - scan row: %v", ErrScanRow, err)
		}
		if weekday < 0 || weekday > int(time.Saturday) {
			continue
		}
		breaks[weekday] = append(breaks[weekday], b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getBreaks - rows error: %w", ErrScanRow, err)
	}

	return breaks, nil
}
