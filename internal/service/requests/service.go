package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	requestRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/request"
)

// Service сервис заявок на запись: просмотр и отклонение.
// Одобрение выполняется в usecase approve_request.
type Service struct {
	repo     RequestRepository
	notifier Notifier
	metrics  Metrics
	logger   Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(repo RequestRepository, notifier Notifier, metrics Metrics, logger Logger) *Service {
	return &Service{repo: repo, notifier: notifier, metrics: metrics, logger: logger}
}

// List заявки, новые первыми. status == nil возвращает все.
func (s *Service) List(ctx context.Context, status *domain.RequestStatus) ([]*domain.BookingRequest, error) {
	result, err := s.repo.List(ctx, status)
	if err != nil {
		s.logger.Error("ListRequests: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return result, nil
}

// Get получает заявку по ID
func (s *Service) Get(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("GetRequest: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return req, nil
}

// Reject отклоняет заявку. Меняется только статус и только из pending:
// повторный вызов возвращает ErrAlreadyHandled и ничего не меняет.
func (s *Service) Reject(ctx context.Context, id int64) error {
	err := s.repo.TransitionStatus(ctx, id, domain.RequestPending, domain.RequestRejected)
	if err != nil {
		if !errors.Is(err, requestRepo.ErrStatusMismatch) {
			s.logger.Error("RejectRequest: repository error for id=%d: %v", id, err)
			return fmt.Errorf("%w: Reject - repository error: %v", ErrInternal, err)
		}

		// Ни одна строка не обновлена: заявки нет или она уже обработана
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return getErr
		}
		s.logger.Warn("RejectRequest: request id=%d already handled", id)
		return ErrAlreadyHandled
	}

	s.logger.Info("RejectRequest: request id=%d rejected", id)
	s.metrics.IncRequestsRejected()

	event := changefeed.Event{
		Table:  domain.TableBookingRequests,
		Op:     changefeed.OpUpdate,
		ID:     id,
		Status: string(domain.RequestRejected),
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("RejectRequest: notify failed for id=%d: %v", id, err)
	}
	return nil
}
