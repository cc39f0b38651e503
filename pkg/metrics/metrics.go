package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя, поэтому при выключенных метриках
// можно передавать nil.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbPool          *prometheus.GaugeVec

	appointmentsCreated  prometheus.Counter
	appointmentConflicts prometheus.Counter
	requestsSubmitted    prometheus.Counter
	requestsApproved     prometheus.Counter
	requestsRejected     prometheus.Counter
	approvalOverlaps     prometheus.Counter
	agendaRecomputes     *prometheus.CounterVec
	agendaViews          prometheus.Gauge
}

// New создает и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: labels,
		}, []string{"operation"}),
		dbPool: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_connections",
			Help:        "Database connection pool state",
			ConstLabels: labels,
		}, []string{"pool", "state"}),
		appointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salon_appointments_created_total",
			Help:        "Appointments created (direct and via approval)",
			ConstLabels: labels,
		}),
		appointmentConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salon_appointment_conflicts_total",
			Help:        "Appointment creations rejected because of overlap",
			ConstLabels: labels,
		}),
		requestsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salon_booking_requests_submitted_total",
			Help:        "Public booking requests submitted",
			ConstLabels: labels,
		}),
		requestsApproved: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salon_booking_requests_approved_total",
			Help:        "Booking requests approved",
			ConstLabels: labels,
		}),
		requestsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salon_booking_requests_rejected_total",
			Help:        "Booking requests rejected",
			ConstLabels: labels,
		}),
		approvalOverlaps: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salon_approval_overlaps_total",
			Help:        "Approvals whose interval overlapped an existing blocking appointment",
			ConstLabels: labels,
		}),
		agendaRecomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "salon_agenda_recomputes_total",
			Help:        "Agenda projection recomputations",
			ConstLabels: labels,
		}, []string{"result"}),
		agendaViews: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "salon_agenda_live_views",
			Help:        "Currently running live agenda views",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbPool,
		m.appointmentsCreated,
		m.appointmentConflicts,
		m.requestsSubmitted,
		m.requestsApproved,
		m.requestsRejected,
		m.approvalOverlaps,
		m.agendaRecomputes,
		m.agendaViews,
	)

	return m
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(d.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) SetDBPool(pool string, open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbPool.WithLabelValues(pool, "open").Set(float64(open))
	m.dbPool.WithLabelValues(pool, "in_use").Set(float64(inUse))
	m.dbPool.WithLabelValues(pool, "idle").Set(float64(idle))
}

func (m *Metrics) IncAppointmentsCreated() {
	if m == nil {
		return
	}
	m.appointmentsCreated.Inc()
}

func (m *Metrics) IncAppointmentConflicts() {
	if m == nil {
		return
	}
	m.appointmentConflicts.Inc()
}

func (m *Metrics) IncRequestsSubmitted() {
	if m == nil {
		return
	}
	m.requestsSubmitted.Inc()
}

func (m *Metrics) IncRequestsApproved() {
	if m == nil {
		return
	}
	m.requestsApproved.Inc()
}

func (m *Metrics) IncRequestsRejected() {
	if m == nil {
		return
	}
	m.requestsRejected.Inc()
}

func (m *Metrics) IncApprovalOverlaps() {
	if m == nil {
		return
	}
	m.approvalOverlaps.Inc()
}

func (m *Metrics) IncAgendaRecompute(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.agendaRecomputes.WithLabelValues(result).Inc()
}

func (m *Metrics) AddAgendaViews(delta int) {
	if m == nil {
		return
	}
	m.agendaViews.Add(float64(delta))
}
