package agenda

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
)

// Значения по умолчанию
const (
	DefaultRefreshInterval = 10 * time.Second
	DefaultFetchTimeout    = 5 * time.Second
)

// Options параметры живых представлений
type Options struct {
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
}

// Service строит сетки и создает живые представления
type Service struct {
	repo       AppointmentRepository
	builder    *Builder
	subscriber Subscriber
	metrics    Metrics
	logger     Logger
	opts       Options
	now        func() time.Time
}

// NewService создает сервис агенды. Нулевые значения Options заменяются значениями по умолчанию.
func NewService(
	repo AppointmentRepository,
	builder *Builder,
	subscriber Subscriber,
	metrics Metrics,
	logger Logger,
	opts Options,
) *Service {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Service{
		repo:       repo,
		builder:    builder,
		subscriber: subscriber,
		metrics:    metrics,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
	}
}

// Snapshot разовая сетка недели, в которую попадает week
func (s *Service) Snapshot(ctx context.Context, week time.Time) (*Projection, error) {
	monday := s.builder.WeekStart(week)
	from, to := monday, monday.AddDate(0, 0, DaysInWeek)

	appts, err := s.repo.List(ctx, domain.AppointmentFilter{
		From:     &from,
		To:       &to,
		Statuses: domain.BlockingStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("agenda: fetch week %s: %w", monday.Format(domain.DateFormat), err)
	}

	proj := s.builder.Build(monday, appts)
	proj.BuiltAt = s.now()
	return &proj, nil
}

// NewView живое представление недели. Неделя фиксирована на все время жизни представления.
func (s *Service) NewView(week time.Time) *View {
	return &View{
		svc:     s,
		week:    s.builder.WeekStart(week),
		updates: make(chan Projection, 1),
	}
}

// Relevant событие требует пересчета сетки: любое изменение записей,
// одобрение заявки или переподключение источника
func Relevant(e changefeed.Event) bool {
	switch {
	case e.Op == changefeed.OpResync:
		return true
	case e.Table == domain.TableAppointments:
		return true
	case e.Table == domain.TableBookingRequests:
		return e.Op == changefeed.OpUpdate && e.Status == string(domain.RequestApproved)
	default:
		return false
	}
}
