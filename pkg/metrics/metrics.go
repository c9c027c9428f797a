package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	// Бизнес-метрики
	BookingsCreated   *prometheus.CounterVec
	BookingConflicts  *prometheus.CounterVec
	BookingsConfirmed *prometheus.CounterVec
	PaymentsOverdue   *prometheus.CounterVec
	PaymentsPaid      *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	f := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: constLabels,
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency.",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections.",
			ConstLabels: constLabels,
		}, []string{}),
		DBInUse: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use.",
			ConstLabels: constLabels,
		}, []string{}),
		DBIdle: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections.",
			ConstLabels: constLabels,
		}, []string{}),
		DBWaitCount: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for.",
			ConstLabels: constLabels,
		}, []string{}),

		BookingsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "marina_bookings_created_total",
			Help:        "Bookings created, by tariff type.",
			ConstLabels: constLabels,
		}, []string{"tariff_type"}),
		BookingConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "marina_booking_conflicts_total",
			Help:        "Booking attempts rejected because the berth already has a live booking.",
			ConstLabels: constLabels,
		}, []string{"stage"}),
		BookingsConfirmed: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "marina_bookings_confirmed_total",
			Help:        "Bookings auto-confirmed after required payments were paid.",
			ConstLabels: constLabels,
		}, []string{}),
		PaymentsOverdue: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "marina_payments_overdue_total",
			Help:        "Payments switched to overdue on read.",
			ConstLabels: constLabels,
		}, []string{}),
		PaymentsPaid: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "marina_payments_paid_total",
			Help:        "Payments marked as paid, by kind.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
	}
}

// Следующие методы безопасны для nil-получателя: сервисы работают и без метрик

func (m *Metrics) IncBookingCreated(tariffType string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(tariffType).Inc()
}

func (m *Metrics) IncBookingConflict(stage string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(stage).Inc()
}

func (m *Metrics) IncBookingConfirmed() {
	if m == nil {
		return
	}
	m.BookingsConfirmed.WithLabelValues().Inc()
}

func (m *Metrics) IncPaymentOverdue() {
	if m == nil {
		return
	}
	m.PaymentsOverdue.WithLabelValues().Inc()
}

func (m *Metrics) IncPaymentPaid(kind string) {
	if m == nil {
		return
	}
	m.PaymentsPaid.WithLabelValues(kind).Inc()
}
