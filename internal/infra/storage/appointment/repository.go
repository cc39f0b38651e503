package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// scheduleLockKey ключ advisory-блокировки, сериализующей прямое создание записей
const scheduleLockKey int64 = 0x5a1011

var selectColumns = []string{
	"a.id",
	"a.customer_id",
	"a.service_id",
	"a.starts_at",
	"a.ends_at",
	"a.status",
	"a.created_at",
	"c.full_name",
	"s.name",
}

// Repository репозиторий записей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись.
// Проверка пересечений лежит на вызывающем коде: для прямого создания она
// выполняется в той же транзакции после LockSchedule.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns("customer_id", "service_id", "starts_at", "ends_at", "status").
		Values(appt.CustomerID, appt.ServiceID, appt.StartsAt.UTC(), appt.EndsAt.UTC(), appt.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &appt.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return appt, nil
}

// LockSchedule берет транзакционную advisory-блокировку расписания.
// Снимается автоматически при COMMIT/ROLLBACK.
func (r *Repository) LockSchedule(ctx context.Context) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", scheduleLockKey); err != nil {
		return fmt.Errorf("%w: LockSchedule - advisory lock: %v", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает запись по ID вместе с именем клиента и названием услуги
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// List получает записи по фильтру, отсортированные по началу.
// Внутри транзакции при заданном диапазоне строки блокируются (FOR UPDATE).
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyFilter(r.baseSelect(), filter).OrderBy("a.starts_at ASC", "a.id ASC")

	if dbmetrics.IsInTransaction(ctx) && filter.From != nil && filter.To != nil {
		// Блокируем только строки appointments: nullable-сторона LEFT JOIN не блокируется
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF a")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// ListBusy интервалы блокирующих записей, пересекающих [from, to).
// Читает только время и статус, поэтому доступен публичной роли БД.
func (r *Repository) ListBusy(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("starts_at", "ends_at", "status").
		From("appointments").
		Where(squirrel.Eq{"status": statusStrings(domain.BlockingStatuses)}).
		Where(squirrel.Lt{"starts_at": to.UTC()}).
		Where(squirrel.Gt{"ends_at": from.UTC()}).
		OrderBy("starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusy - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusy - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		var appt domain.Appointment
		if err := rows.Scan(&appt.StartsAt, &appt.EndsAt, &appt.Status); err != nil {
			return nil, fmt.Errorf("%w: ListBusy - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBusy - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Count количество записей по фильтру
func (r *Repository) Count(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select("COUNT(*)").From("appointments a"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

// UpdateStatus обновляет статус записи. Отмена - тоже смена статуса, строки не удаляются.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *Repository) baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(selectColumns...).
		From("appointments a").
		LeftJoin("customers c ON c.id = a.customer_id").
		LeftJoin("services s ON s.id = a.service_id")
}

func applyFilter(b squirrel.SelectBuilder, filter domain.AppointmentFilter) squirrel.SelectBuilder {
	// Пересечение с полуинтервалом [From, To)
	if filter.To != nil {
		b = b.Where(squirrel.Lt{"a.starts_at": filter.To.UTC()})
	}
	if filter.From != nil {
		b = b.Where(squirrel.Gt{"a.ends_at": filter.From.UTC()})
	}
	if len(filter.Statuses) > 0 {
		b = b.Where(squirrel.Eq{"a.status": statusStrings(filter.Statuses)})
	}
	if filter.CustomerID != nil {
		b = b.Where(squirrel.Eq{"a.customer_id": *filter.CustomerID})
	}
	return b
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt         domain.Appointment
		customerName sql.NullString
		serviceName  sql.NullString
	)

	err := row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.ServiceID,
		&appt.StartsAt,
		&appt.EndsAt,
		&appt.Status,
		&appt.CreatedAt,
		&customerName,
		&serviceName,
	)
	if err != nil {
		return nil, err
	}

	if appt.CustomerID != nil && customerName.Valid {
		appt.Customer = &domain.CustomerRef{ID: *appt.CustomerID, FullName: customerName.String}
	}
	if serviceName.Valid {
		appt.Service = &domain.ServiceRef{ID: appt.ServiceID, Name: serviceName.String}
	}

	return &appt, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
