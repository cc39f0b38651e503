package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
)

// Service сервис управления записями (админка)
type Service struct {
	repo     AppointmentRepository
	notifier Notifier
	logger   Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(repo AppointmentRepository, notifier Notifier, logger Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// List возвращает записи, пересекающие [from, to), с фильтром по статусам
func (s *Service) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", ErrInvalidInput)
	}

	result, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListAppointments: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return result, nil
}

// Get получает запись по ID
func (s *Service) Get(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetAppointment: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return appt, nil
}

// Cancel отменяет запись. Строка остается в таблице со статусом cancelled
// и перестает занимать время в расписании.
func (s *Service) Cancel(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("CancelAppointment: appointment id=%d already cancelled", id)
		return nil, ErrCannotCancel
	}

	return s.setStatus(ctx, appt, domain.AppointmentCancelled)
}

// UpdateStatus подтверждение или завершение записи
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if status != domain.AppointmentConfirmed && status != domain.AppointmentDone {
		return nil, fmt.Errorf("%w: status must be confirmed or done", ErrInvalidInput)
	}

	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appt.CanTransitionTo(status) {
		s.logger.Warn("UpdateAppointmentStatus: transition %s -> %s not allowed for id=%d", appt.Status, status, id)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, status)
	}

	return s.setStatus(ctx, appt, status)
}

func (s *Service) setStatus(ctx context.Context, appt *domain.Appointment, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if err := s.repo.UpdateStatus(ctx, appt.ID, status); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateAppointmentStatus: repository error for id=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateAppointmentStatus: appointment id=%d %s -> %s", appt.ID, appt.Status, status)
	appt.Status = status

	event := changefeed.Event{Table: domain.TableAppointments, Op: changefeed.OpUpdate, ID: appt.ID, Status: string(status)}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("UpdateAppointmentStatus: notify failed for id=%d: %v", appt.ID, err)
	}
	return appt, nil
}
