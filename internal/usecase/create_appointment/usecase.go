package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/customer"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

// UseCase use case для создания записи сотрудником
type UseCase struct {
	appointmentRepo AppointmentRepository
	customerRepo    CustomerRepository
	serviceRepo     ServiceRepository
	txManager       TransactionManager
	calendar        *schedule.Calendar
	notifier        Notifier
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	customerRepo CustomerRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	calendar *schedule.Calendar,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		customerRepo:    customerRepo,
		serviceRepo:     serviceRepo,
		txManager:       txManager,
		calendar:        calendar,
		notifier:        notifier,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка пересечений и вставка выполняются в одной транзакции под advisory lock
// расписания. Уровень READ COMMITTED: каждый запрос после захвата блокировки видит
// записи, зафиксированные предыдущим владельцем.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, service=%d, start=%s, end=%s",
		req.CustomerID, req.ServiceID, req.Start, req.End)

	// 1. Валидация входных данных
	start, end, err := validateRequest(req, uc.calendar)
	if err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем клиента
	if _, err := uc.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			uc.logger.Warn("CreateAppointment: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	// 3. Проверяем услугу
	if _, err := uc.serviceRepo.GetByID(ctx, req.ServiceID); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	var result *domain.Appointment

	// 4. Проверка и вставка в транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. Единая точка записи в расписание
		if err := uc.appointmentRepo.LockSchedule(txCtx); err != nil {
			uc.logger.Error("CreateAppointment: failed to lock schedule: %v", err)
			return fmt.Errorf("%w: failed to lock schedule: %v", ErrInternal, err)
		}

		// 4.2. Активные записи, пересекающие интервал (FOR UPDATE)
		overlapping, err := uc.appointmentRepo.List(txCtx, domain.AppointmentFilter{
			From:     ptr.Ptr(start),
			To:       ptr.Ptr(end),
			Statuses: domain.BlockingStatuses,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to list overlapping appointments: %v", err)
			return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
		}

		// 4.3. Проверка конфликта
		if conflict, found := schedule.FirstConflict(start, end, toIntervals(overlapping)); found {
			uc.logger.Warn("CreateAppointment: conflict with [%s, %s)",
				conflict.Start.Format(domain.TimestampFormat), conflict.End.Format(domain.TimestampFormat))
			return ErrConflict
		}

		// 4.4. Создаем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			CustomerID: ptr.Ptr(req.CustomerID),
			ServiceID:  req.ServiceID,
			StartsAt:   start,
			EndsAt:     end,
			Status:     domain.AppointmentBooked,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrConflict) {
			uc.metrics.IncAppointmentConflicts()
			return nil, ErrConflict
		}
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)
	uc.metrics.IncAppointmentsCreated()

	event := changefeed.Event{
		Table:  domain.TableAppointments,
		Op:     changefeed.OpInsert,
		ID:     result.ID,
		Status: string(result.Status),
	}
	if err := uc.notifier.Notify(ctx, event); err != nil {
		uc.logger.Warn("CreateAppointment: notify failed for id=%d: %v", result.ID, err)
	}

	return &Response{
		ID:         result.ID,
		CustomerID: req.CustomerID,
		ServiceID:  result.ServiceID,
		StartsAt:   result.StartsAt,
		EndsAt:     result.EndsAt,
		Status:     string(result.Status),
		CreatedAt:  result.CreatedAt,
	}, nil
}

func toIntervals(appts []*domain.Appointment) []schedule.Interval {
	result := make([]schedule.Interval, 0, len(appts))
	for _, a := range appts {
		if !a.Status.IsBlocking() {
			continue
		}
		result = append(result, schedule.Interval{Start: a.StartsAt, End: a.EndsAt})
	}
	return result
}
