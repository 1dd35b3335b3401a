package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
// Все методы безопасно вызывать на nil-указателе: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal    *prometheus.CounterVec
	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	ReservationsCreated  *prometheus.CounterVec
	ReservationsRejected *prometheus.CounterVec
	BookingConflicts     *prometheus.CounterVec
	RecomputeRuns        *prometheus.CounterVec
	RecomputeConflicts   *prometheus.CounterVec
	CacheLookups         *prometheus.CounterVec
}

// New регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном registry (для тестов)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUse: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdle: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		ReservationsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_created_total",
			Help:        "Reservations successfully created",
			ConstLabels: constLabels,
		}, []string{"company"}),
		ReservationsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_rejected_total",
			Help:        "Reservation attempts rejected by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		BookingConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Booking attempts that lost a race for the same dates",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		RecomputeRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "calendar_recompute_runs_total",
			Help:        "Calendar recompute runs by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
		RecomputeConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "calendar_recompute_conflicts_total",
			Help:        "Claimed cells flagged for operator review during recompute",
			ConstLabels: constLabels,
		}, []string{}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_cache_lookups_total",
			Help:        "Availability cache lookups by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}
}

// ObserveHTTP фиксирует HTTP запрос
func (m *Metrics) ObserveHTTP(method, route string, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveDB фиксирует запрос к БД
func (m *Metrics) ObserveDB(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DBQueriesTotal.WithLabelValues(operation, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) IncReservationCreated(companyLabel string) {
	if m == nil {
		return
	}
	m.ReservationsCreated.WithLabelValues(companyLabel).Inc()
}

func (m *Metrics) IncReservationRejected(reason string) {
	if m == nil {
		return
	}
	m.ReservationsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncBookingConflict(operation string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncRecompute(result string, conflicts int) {
	if m == nil {
		return
	}
	m.RecomputeRuns.WithLabelValues(result).Inc()
	if conflicts > 0 {
		m.RecomputeConflicts.WithLabelValues().Add(float64(conflicts))
	}
}

func (m *Metrics) IncCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
