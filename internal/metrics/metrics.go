package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the Prometheus collectors of the dashboard.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	handler         http.Handler
	registered      prometheus.Counter
	rejected        *prometheus.CounterVec
	deleted         prometheus.Counter
	storeFailures   *prometheus.CounterVec
	bookings        prometheus.Gauge
	renders         *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

// New registers the collectors on a private registry
func New() *Recorder {
	registry := prometheus.NewRegistry()

	registered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vacation_bookings_registered_total",
		Help: "Bookings accepted and persisted",
	})

	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vacation_bookings_rejected_total",
		Help: "Booking requests rejected by validation",
	}, []string{"reason"})

	deleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vacation_bookings_deleted_total",
		Help: "Bookings removed",
	})

	storeFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vacation_store_failures_total",
		Help: "Failed store operations",
	}, []string{"op"})

	bookings := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vacation_bookings",
		Help: "Bookings held in the store after the last load or save",
	})

	renders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vacation_calendar_renders_total",
		Help: "Rendered month calendars",
	}, []string{"format"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	registry.MustRegister(registered, rejected, deleted, storeFailures, bookings, renders, requestDuration, requestTotal)

	return &Recorder{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		registered:      registered,
		rejected:        rejected,
		deleted:         deleted,
		storeFailures:   storeFailures,
		bookings:        bookings,
		renders:         renders,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}
}

// Registry exposes the underlying registry, mostly for tests
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler exposes the Prometheus HTTP handler
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

func (r *Recorder) BookingRegistered() {
	if r == nil {
		return
	}
	r.registered.Inc()
}

func (r *Recorder) BookingRejected(reason string) {
	if r == nil {
		return
	}
	r.rejected.WithLabelValues(reason).Inc()
}

func (r *Recorder) BookingDeleted() {
	if r == nil {
		return
	}
	r.deleted.Inc()
}

// StoreFailure counts a failed load, save or reset
func (r *Recorder) StoreFailure(op string) {
	if r == nil {
		return
	}
	r.storeFailures.WithLabelValues(op).Inc()
}

func (r *Recorder) SetBookings(n int) {
	if r == nil {
		return
	}
	r.bookings.Set(float64(n))
}

func (r *Recorder) CalendarRendered(format string) {
	if r == nil {
		return
	}
	r.renders.WithLabelValues(format).Inc()
}

// ObserveHTTPRequest records request duration and count
func (r *Recorder) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	r.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	r.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}
