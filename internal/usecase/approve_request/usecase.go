package approve_request

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	customerRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/customer"
	requestRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/request"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

// UseCase use case одобрения заявки: заявка -> клиент -> запись в одной транзакции
type UseCase struct {
	requestRepo     RequestRepository
	customerRepo    CustomerRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	strict          bool
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// strict = true превращает найденное пересечение в ErrConflict, иначе оно только логируется.
func NewUseCase(
	requestRepo RequestRepository,
	customerRepo CustomerRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	strict bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		requestRepo:     requestRepo,
		customerRepo:    customerRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		strict:          strict,
		logger:          logger,
	}
}

// Execute выполняет одобрение. Любая ошибка внутри транзакции откатывает все изменения.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApproveRequest: request=%d, strict=%t", req.RequestID, uc.strict)

	// 1. Валидация входных данных
	if req.RequestID <= 0 {
		return nil, fmt.Errorf("%w: requestId must be positive", ErrInvalidInput)
	}

	resp := &Response{RequestID: req.RequestID}

	// 2. Транзакция
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Блокируем заявку и перепроверяем статус
		bookingReq, err := uc.requestRepo.GetByID(txCtx, req.RequestID)
		if err != nil {
			if errors.Is(err, requestRepo.ErrRequestNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("%w: failed to get request: %v", ErrInternal, err)
		}
		if !bookingReq.IsPending() {
			uc.logger.Warn("ApproveRequest: request id=%d is %s", req.RequestID, bookingReq.Status)
			return ErrAlreadyHandled
		}

		// 2.2. Клиент: по email, затем по телефону, иначе новый
		customer, created, err := uc.resolveCustomer(txCtx, bookingReq)
		if err != nil {
			return err
		}
		resp.CustomerID = customer.ID
		resp.CustomerCreated = created

		// 2.3. Проверка пересечений
		overlaps, err := uc.checkOverlaps(txCtx, bookingReq)
		if err != nil {
			return err
		}
		resp.Overlaps = overlaps

		// 2.4. Создаем запись
		appt, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			CustomerID: ptr.Ptr(customer.ID),
			ServiceID:  bookingReq.ServiceID,
			StartsAt:   bookingReq.RequestedStart,
			EndsAt:     bookingReq.RequestedEnd,
			Status:     domain.AppointmentBooked,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
		resp.AppointmentID = appt.ID

		// 2.5. pending -> approved
		if err := uc.requestRepo.TransitionStatus(txCtx, req.RequestID, domain.RequestPending, domain.RequestApproved); err != nil {
			if errors.Is(err, requestRepo.ErrStatusMismatch) {
				return ErrAlreadyHandled
			}
			return fmt.Errorf("%w: failed to update request status: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrAlreadyHandled), errors.Is(err, ErrConflict):
			uc.logger.Warn("ApproveRequest: request id=%d not approved: %v", req.RequestID, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("ApproveRequest: request id=%d: %v", req.RequestID, err)
			return nil, err
		}
		uc.logger.Error("ApproveRequest: transaction failed for request id=%d: %v", req.RequestID, err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("ApproveRequest: request id=%d approved, appointment id=%d, customer id=%d (created=%t)",
		resp.RequestID, resp.AppointmentID, resp.CustomerID, resp.CustomerCreated)
	uc.metrics.IncRequestsApproved()
	if resp.Overlaps {
		uc.metrics.IncApprovalOverlaps()
	}

	// 3. Уведомления после коммита
	uc.notify(ctx, changefeed.Event{
		Table:  domain.TableBookingRequests,
		Op:     changefeed.OpUpdate,
		ID:     resp.RequestID,
		Status: string(domain.RequestApproved),
	})
	uc.notify(ctx, changefeed.Event{
		Table:  domain.TableAppointments,
		Op:     changefeed.OpInsert,
		ID:     resp.AppointmentID,
		Status: string(domain.AppointmentBooked),
	})

	return resp, nil
}

func (uc *UseCase) resolveCustomer(ctx context.Context, r *domain.BookingRequest) (*domain.Customer, bool, error) {
	email := trimmed(r.Email)
	phone := trimmed(r.Phone)

	if email != "" {
		c, err := uc.customerRepo.FindByEmail(ctx, email)
		if err == nil {
			return c, false, nil
		}
		if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
			return nil, false, fmt.Errorf("%w: failed to find customer by email: %v", ErrInternal, err)
		}
	}

	if phone != "" {
		c, err := uc.customerRepo.FindByPhone(ctx, phone)
		if err == nil {
			return c, false, nil
		}
		if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
			return nil, false, fmt.Errorf("%w: failed to find customer by phone: %v", ErrInternal, err)
		}
	}

	name := strings.TrimSpace(r.FullName)
	if name == "" {
		name = domain.DefaultCustomerName
	}
	c, err := uc.customerRepo.Create(ctx, &domain.Customer{
		FullName: name,
		Phone:    nonEmpty(phone),
		Email:    nonEmpty(email),
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to create customer: %v", ErrInternal, err)
	}
	return c, true, nil
}

// checkOverlaps ищет активные записи, пересекающие интервал заявки.
// В строгом режиме пересечение отменяет одобрение, иначе только отмечается.
func (uc *UseCase) checkOverlaps(ctx context.Context, r *domain.BookingRequest) (bool, error) {
	if err := uc.appointmentRepo.LockSchedule(ctx); err != nil {
		return false, fmt.Errorf("%w: failed to lock schedule: %v", ErrInternal, err)
	}

	existing, err := uc.appointmentRepo.List(ctx, domain.AppointmentFilter{
		From:     ptr.Ptr(r.RequestedStart),
		To:       ptr.Ptr(r.RequestedEnd),
		Statuses: domain.BlockingStatuses,
	})
	if err != nil {
		return false, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	intervals := make([]schedule.Interval, 0, len(existing))
	for _, a := range existing {
		intervals = append(intervals, schedule.Interval{Start: a.StartsAt, End: a.EndsAt})
	}
	if !schedule.HasConflict(r.RequestedStart, r.RequestedEnd, intervals) {
		return false, nil
	}

	if uc.strict {
		return true, ErrConflict
	}
	uc.logger.Warn("ApproveRequest: request id=%d overlaps %d existing appointment(s), approving anyway",
		r.ID, len(intervals))
	return true, nil
}

func (uc *UseCase) notify(ctx context.Context, e changefeed.Event) {
	if err := uc.notifier.Notify(ctx, e); err != nil {
		uc.logger.Warn("ApproveRequest: notify %s/%s id=%d failed: %v", e.Table, e.Op, e.ID, err)
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
