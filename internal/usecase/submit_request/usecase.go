package submit_request

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
)

// UseCase use case приема заявки на запись с публичного сайта
type UseCase struct {
	requestRepo     RequestRepository
	serviceRepo     ServiceRepository
	calendar        *schedule.Calendar
	notifier        Notifier
	metrics         Metrics
	confirmationURL string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// confirmationURL базовый адрес страницы подтверждения, к нему добавляется ?id=<id>.
func NewUseCase(
	requestRepo RequestRepository,
	serviceRepo ServiceRepository,
	calendar *schedule.Calendar,
	notifier Notifier,
	metrics Metrics,
	confirmationURL string,
	logger Logger,
) *UseCase {
	return &UseCase{
		requestRepo:     requestRepo,
		serviceRepo:     serviceRepo,
		calendar:        calendar,
		notifier:        notifier,
		metrics:         metrics,
		confirmationURL: confirmationURL,
		logger:          logger,
	}
}

// Execute выполняет use case приема заявки. Заявка всегда создается в статусе pending.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitRequest: service=%d, start=%s, end=%s", req.ServiceID, req.Start, req.End)

	// 1. Нормализация и валидация
	normalize(req)
	start, end, err := validateRequest(req, uc.calendar)
	if err != nil {
		uc.logger.Warn("SubmitRequest: validation failed: %v", err)
		return nil, err
	}

	// 2. Услуга должна существовать и быть активной
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("SubmitRequest: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("SubmitRequest: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("SubmitRequest: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 3. Сохраняем заявку
	created, err := uc.requestRepo.Create(ctx, &domain.BookingRequest{
		FullName:       req.FullName,
		Phone:          req.Phone,
		Email:          req.Email,
		ServiceID:      req.ServiceID,
		RequestedStart: start,
		RequestedEnd:   end,
		Note:           req.Note,
		Status:         domain.RequestPending,
	})
	if err != nil {
		uc.logger.Error("SubmitRequest: failed to create request: %v", err)
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	uc.logger.Info("SubmitRequest: created request id=%d", created.ID)
	uc.metrics.IncRequestsSubmitted()

	event := changefeed.Event{
		Table:  domain.TableBookingRequests,
		Op:     changefeed.OpInsert,
		ID:     created.ID,
		Status: string(created.Status),
	}
	if err := uc.notifier.Notify(ctx, event); err != nil {
		uc.logger.Warn("SubmitRequest: notify failed for id=%d: %v", created.ID, err)
	}

	return &Response{
		ID:              created.ID,
		Status:          string(created.Status),
		ConfirmationURL: uc.confirmationLink(created.ID),
	}, nil
}

func (uc *UseCase) confirmationLink(id int64) string {
	if uc.confirmationURL == "" {
		return ""
	}
	u, err := url.Parse(uc.confirmationURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("id", strconv.FormatInt(id, 10))
	u.RawQuery = q.Encode()
	return u.String()
}
