package dashboard

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
)

// Summary сводка для главной страницы админки
type Summary struct {
	PendingRequests   int
	TodayAppointments int
}

// Service сервис сводки
type Service struct {
	requests     RequestCounter
	appointments AppointmentCounter
	calendar     *schedule.Calendar
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает сервис сводки
func NewService(
	requests RequestCounter,
	appointments AppointmentCounter,
	calendar *schedule.Calendar,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		requests:     requests,
		appointments: appointments,
		calendar:     calendar,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Summary считает заявки в ожидании и записи booked/confirmed на сегодня (по часовому поясу салона)
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	pending, err := s.requests.Count(ctx, domain.RequestPending)
	if err != nil {
		s.logger.Error("Dashboard: failed to count pending requests: %v", err)
		return nil, fmt.Errorf("%w: count requests: %v", ErrInternal, err)
	}

	today := s.calendar.DayBounds(s.calendar.Today(s.timeProvider.Now()))
	todayCount, err := s.appointments.Count(ctx, domain.AppointmentFilter{
		From:     &today.Start,
		To:       &today.End,
		Statuses: domain.TodayCountedStatuses,
	})
	if err != nil {
		s.logger.Error("Dashboard: failed to count today's appointments: %v", err)
		return nil, fmt.Errorf("%w: count appointments: %v", ErrInternal, err)
	}

	return &Summary{PendingRequests: pending, TodayAppointments: todayCount}, nil
}
