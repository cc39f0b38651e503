package request

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

var selectColumns = []string{
	"r.id",
	"r.full_name",
	"r.phone",
	"r.email",
	"r.service_id",
	"r.requested_start",
	"r.requested_end",
	"r.note",
	"r.status",
	"r.created_at",
	"s.name",
}

// Repository репозиторий заявок на запись
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую заявку в статусе pending
func (r *Repository) Create(ctx context.Context, req *domain.BookingRequest) (*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	req.Status = domain.RequestPending

	query, args, err := psqlbuilder.Insert("booking_requests").
		Columns("full_name", "phone", "email", "service_id", "requested_start", "requested_end", "note", "status").
		Values(
			req.FullName,
			req.Phone,
			req.Email,
			req.ServiceID,
			req.RequestedStart.UTC(),
			req.RequestedEnd.UTC(),
			req.Note,
			req.Status,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	return req, nil
}

// GetByID получает заявку по ID.
// Внутри транзакции строка блокируется (FOR UPDATE): параллельное одобрение той же
// заявки ждёт коммита и затем видит новый статус.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.baseSelect().Where(squirrel.Eq{"r.id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF r")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan request: %v", ErrScanRow, err)
	}
	return req, nil
}

// List получает заявки, новые сверху. status == nil - все статусы.
func (r *Repository) List(ctx context.Context, status *domain.RequestStatus) ([]*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.baseSelect().OrderBy("r.created_at DESC", "r.id DESC")
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.status": string(*status)})
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

	result := make([]*domain.BookingRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}
	return result, nil
}

// Count количество заявок в статусе
func (r *Repository) Count(ctx context.Context, status domain.RequestStatus) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("booking_requests").
		Where(squirrel.Eq{"status": string(status)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

// TransitionStatus переводит заявку из from в to одним UPDATE ... WHERE status = from.
// Если ни одна строка не обновлена, возвращает ErrStatusMismatch (заявки нет или она уже обработана).
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_requests").
		Set("status", string(to)).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrStatusMismatch
	}
	return nil
}

func (r *Repository) baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(selectColumns...).
		From("booking_requests r").
		LeftJoin("services s ON s.id = r.service_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.BookingRequest, error) {
	var (
		req         domain.BookingRequest
		serviceName sql.NullString
	)

	err := row.Scan(
		&req.ID,
		&req.FullName,
		&req.Phone,
		&req.Email,
		&req.ServiceID,
		&req.RequestedStart,
		&req.RequestedEnd,
		&req.Note,
		&req.Status,
		&req.CreatedAt,
		&serviceName,
	)
	if err != nil {
		return nil, err
	}

	if serviceName.Valid {
		req.Service = &domain.ServiceRef{ID: req.ServiceID, Name: serviceName.String}
	}
	return &req, nil
}
