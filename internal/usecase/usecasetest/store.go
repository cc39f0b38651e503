// Package usecasetest хранилище в памяти для тестов usecase-ов.
// Повторяет семантику репозиториев Postgres: фильтры, сортировку, ошибки not found
// и откат транзакции при ошибке.
package usecasetest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/customer"
	requestRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/request"
)

type txKey struct{}

// Store общее состояние всех таблиц
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	now  time.Time
	seq  int64

	appointments map[int64]domain.Appointment
	customers    map[int64]domain.Customer
	services     map[int64]domain.Service
	requests     map[int64]domain.BookingRequest

	// FailNext, если задана, возвращается следующим вызовом Create любой таблицы
	FailNext error
	// ScheduleLocks число успешных LockSchedule
	ScheduleLocks int
}

func NewStore() *Store {
	return &Store{
		now:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		appointments: map[int64]domain.Appointment{},
		customers:    map[int64]domain.Customer{},
		services:     map[int64]domain.Service{},
		requests:     map[int64]domain.BookingRequest{},
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

// ============================================================
// Транзакции
// ============================================================

// TxManager транзакции поверх Store: сериализованы, при ошибке состояние откатывается
type TxManager struct {
	store *Store
}

func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	snapshot := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.restore(snapshot)
		return err
	}
	return nil
}

type snapshot struct {
	appointments map[int64]domain.Appointment
	customers    map[int64]domain.Customer
	services     map[int64]domain.Service
	requests     map[int64]domain.BookingRequest
	seq          int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		appointments: copyMap(s.appointments),
		customers:    copyMap(s.customers),
		services:     copyMap(s.services),
		requests:     copyMap(s.requests),
		seq:          s.seq,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = snap.appointments
	s.customers = snap.customers
	s.services = snap.services
	s.requests = snap.requests
	s.seq = snap.seq
}

func copyMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ============================================================
// Наполнение
// ============================================================

func (s *Store) AddService(svc domain.Service) *domain.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == 0 {
		svc.ID = s.nextID()
	}
	if svc.Category == "" {
		svc.Category = domain.DefaultCategory
	}
	s.services[svc.ID] = svc
	return &svc
}

func (s *Store) AddCustomer(c domain.Customer) *domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.nextID()
	}
	s.customers[c.ID] = c
	return &c
}

func (s *Store) AddAppointment(a domain.Appointment) *domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.nextID()
	}
	s.appointments[a.ID] = a
	return &a
}

func (s *Store) AddRequest(r domain.BookingRequest) *domain.BookingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.nextID()
	}
	if r.Status == "" {
		r.Status = domain.RequestPending
	}
	s.requests[r.ID] = r
	return &r
}

// Appointments все записи по возрастанию ID
func (s *Store) Appointments() []domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.appointments, func(a domain.Appointment) int64 { return a.ID })
}

// Customers все клиенты по возрастанию ID
func (s *Store) Customers() []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.customers, func(c domain.Customer) int64 { return c.ID })
}

// Request текущее состояние заявки
func (s *Store) Request(id int64) (domain.BookingRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	return r, ok
}

func sortedValues[V any](m map[int64]V, id func(V) int64) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}

// ============================================================
// Записи
// ============================================================

type AppointmentRepo struct{ s *Store }

func (s *Store) AppointmentRepo() *AppointmentRepo { return &AppointmentRepo{s: s} }

func (r *AppointmentRepo) LockSchedule(ctx context.Context) error {
	if ctx.Value(txKey{}) == nil {
		return appointmentRepo.ErrNotInTransaction
	}
	r.s.mu.Lock()
	r.s.ScheduleLocks++
	r.s.mu.Unlock()
	return nil
}

func (r *AppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}
	created := *a
	created.ID = r.s.nextID()
	created.CreatedAt = r.s.now
	r.s.appointments[created.ID] = created
	out := created
	return &out, nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return r.s.withRefs(a), nil
}

func (r *AppointmentRepo) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []*domain.Appointment
	for _, a := range r.s.appointments {
		if matches(a, filter) {
			result = append(result, r.s.withRefs(a))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartsAt.Equal(result[j].StartsAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartsAt.Before(result[j].StartsAt)
	})
	return result, nil
}

func (r *AppointmentRepo) ListBusy(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	all, err := r.List(ctx, domain.AppointmentFilter{From: &from, To: &to, Statuses: domain.BlockingStatuses})
	if err != nil {
		return nil, err
	}
	busy := make([]*domain.Appointment, 0, len(all))
	for _, a := range all {
		busy = append(busy, &domain.Appointment{StartsAt: a.StartsAt, EndsAt: a.EndsAt, Status: a.Status})
	}
	return busy, nil
}

func (r *AppointmentRepo) Count(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	all, err := r.List(ctx, filter)
	return len(all), err
}

func (r *AppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	r.s.appointments[id] = a
	return nil
}

func matches(a domain.Appointment, f domain.AppointmentFilter) bool {
	if f.From != nil && !a.EndsAt.After(*f.From) {
		return false
	}
	if f.To != nil && !a.StartsAt.Before(*f.To) {
		return false
	}
	if f.CustomerID != nil && (a.CustomerID == nil || *a.CustomerID != *f.CustomerID) {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, st := range f.Statuses {
		if a.Status == st {
			return true
		}
	}
	return false
}

// withRefs имитирует LEFT JOIN customers/services
func (s *Store) withRefs(a domain.Appointment) *domain.Appointment {
	out := a
	if a.CustomerID != nil {
		if c, ok := s.customers[*a.CustomerID]; ok {
			out.Customer = &domain.CustomerRef{ID: c.ID, FullName: c.FullName}
		}
	}
	if svc, ok := s.services[a.ServiceID]; ok {
		out.Service = &domain.ServiceRef{ID: svc.ID, Name: svc.Name}
	}
	return &out
}

// ============================================================
// Клиенты
// ============================================================

type CustomerRepo struct{ s *Store }

func (s *Store) CustomerRepo() *CustomerRepo { return &CustomerRepo{s: s} }

func (r *CustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}
	created := *c
	created.ID = r.s.nextID()
	created.CreatedAt = r.s.now
	r.s.customers[created.ID] = created
	out := created
	return &out, nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, customerRepo.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *CustomerRepo) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	return r.find(func(c domain.Customer) bool {
		return c.Email != nil && strings.EqualFold(*c.Email, email)
	})
}

func (r *CustomerRepo) FindByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	return r.find(func(c domain.Customer) bool {
		return c.Phone != nil && *c.Phone == phone
	})
}

func (r *CustomerRepo) find(match func(domain.Customer) bool) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range sortedValues(r.s.customers, func(c domain.Customer) int64 { return c.ID }) {
		if match(c) {
			out := c
			return &out, nil
		}
	}
	return nil, customerRepo.ErrCustomerNotFound
}

// ============================================================
// Услуги
// ============================================================

type ServiceRepo struct{ s *Store }

func (s *Store) ServiceRepo() *ServiceRepo { return &ServiceRepo{s: s} }

func (r *ServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return &svc, nil
}

// ============================================================
// Заявки
// ============================================================

type RequestRepo struct{ s *Store }

func (s *Store) RequestRepo() *RequestRepo { return &RequestRepo{s: s} }

func (r *RequestRepo) Create(_ context.Context, req *domain.BookingRequest) (*domain.BookingRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}
	created := *req
	created.ID = r.s.nextID()
	created.Status = domain.RequestPending
	created.CreatedAt = r.s.now
	r.s.requests[created.ID] = created
	out := created
	return &out, nil
}

func (r *RequestRepo) GetByID(_ context.Context, id int64) (*domain.BookingRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, requestRepo.ErrRequestNotFound
	}
	return &req, nil
}

func (r *RequestRepo) TransitionStatus(_ context.Context, id int64, from, to domain.RequestStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok || req.Status != from {
		return requestRepo.ErrStatusMismatch
	}
	req.Status = to
	r.s.requests[id] = req
	return nil
}

// ============================================================
// Вспомогательные реализации
// ============================================================

// Events записывает опубликованные события
type Events struct {
	mu     sync.Mutex
	events []changefeed.Event
	Err    error
}

func (e *Events) Notify(_ context.Context, ev changefeed.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	return e.Err
}

func (e *Events) All() []changefeed.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]changefeed.Event(nil), e.events...)
}

// Counters счетчики вместо Prometheus
type Counters struct {
	mu                  sync.Mutex
	AppointmentsCreated int
	Conflicts           int
	Submitted           int
	Approved            int
	ApprovalOverlaps    int
}

func (c *Counters) IncAppointmentsCreated()  { c.inc(&c.AppointmentsCreated) }
func (c *Counters) IncAppointmentConflicts() { c.inc(&c.Conflicts) }
func (c *Counters) IncRequestsSubmitted()    { c.inc(&c.Submitted) }
func (c *Counters) IncRequestsApproved()     { c.inc(&c.Approved) }
func (c *Counters) IncApprovalOverlaps()     { c.inc(&c.ApprovalOverlaps) }

func (c *Counters) inc(v *int) {
	c.mu.Lock()
	*v++
	c.mu.Unlock()
}

// Logger логгер, сохраняющий предупреждения
type Logger struct {
	mu    sync.Mutex
	Warns []string
}

func (l *Logger) Info(string, ...interface{}) {}

func (l *Logger) Warn(format string, _ ...interface{}) {
	l.mu.Lock()
	l.Warns = append(l.Warns, format)
	l.mu.Unlock()
}

func (l *Logger) Error(string, ...interface{}) {}

// FixedClock TimeProvider с заданным временем
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// ErrInjected ошибка для проверки отката
var ErrInjected = errors.New("usecasetest: injected failure")
