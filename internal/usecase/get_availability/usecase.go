package get_availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
)

// UseCase use case публичной занятости и свободных слотов на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	calendar        *schedule.Calendar
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	calendar *schedule.Calendar,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		calendar:        calendar,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (тесты)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: date=%s, service=%v", req.Date, req.ServiceID)

	// 1. Валидация входных данных
	if strings.TrimSpace(req.Date) == "" {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date, err := uc.calendar.ParseDate(req.Date)
	if err != nil {
		uc.logger.Warn("GetAvailability: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	// 2. Получаем услугу (если запрошены слоты)
	var service *domain.Service
	if req.ServiceID != nil {
		service, err = uc.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailability: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailability: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.Active {
			uc.logger.Warn("GetAvailability: service id=%d is inactive", service.ID)
			return nil, ErrServiceNotFound
		}
	}

	// 3. Активные записи, пересекающие местные сутки
	day := uc.calendar.DayBounds(date)
	appts, err := uc.appointmentRepo.ListBusy(ctx, day.Start, day.End)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list busy intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to list busy intervals: %v", ErrInternal, err)
	}

	resp := &Response{Date: day.Start, Busy: make([]Busy, 0, len(appts))}
	blocking := make([]schedule.Interval, 0, len(appts))
	for _, a := range appts {
		resp.Busy = append(resp.Busy, Busy{Start: a.StartsAt, End: a.EndsAt, Status: string(a.Status)})
		blocking = append(blocking, schedule.Interval{Start: a.StartsAt, End: a.EndsAt})
	}

	// 4. Свободные начала для длительности услуги
	if service != nil {
		resp.ServiceID = &service.ID
		resp.DurationMinutes = service.DurationMinutes
		resp.Slots = schedule.Resolve(date, service.DurationMinutes, uc.calendar, blocking, uc.timeProvider.Now())
		if resp.Slots == nil {
			resp.Slots = []time.Time{}
		}
	}

	uc.logger.Info("GetAvailability: date=%s busy=%d slots=%d", req.Date, len(resp.Busy), len(resp.Slots))
	return resp, nil
}
