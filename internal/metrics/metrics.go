// Package metrics exposes the prometheus collectors for the HTTP layer and
// the booking core.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_http_requests_total",
			Help: "Total number of HTTP requests labeled by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courtbook_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	bookingAdmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_booking_admissions_total",
			Help: "Booking requests by outcome",
		},
		[]string{"outcome"},
	)
	bookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_booking_cancellations_total",
			Help: "Booking cancellations by outcome",
		},
		[]string{"outcome"},
	)
	bookingsCleanedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courtbook_bookings_cleaned_total",
			Help: "Bookings removed by the retention job",
		},
	)
	cleanupRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_cleanup_runs_total",
			Help: "Retention job runs by result",
		},
		[]string{"result"},
	)
)

// RecordRequest counts one served request. route should be the matched mux
// pattern, never the raw path.
func RecordRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if status == 0 {
		status = http.StatusOK
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCleanup tracks one retention run.
func RecordCleanup(removed int64, err error) {
	if err != nil {
		cleanupRunsTotal.WithLabelValues("error").Inc()
		return
	}
	cleanupRunsTotal.WithLabelValues("ok").Inc()
	bookingsCleanedTotal.Add(float64(removed))
}

// BookingRecorder feeds admission and cancellation outcomes into prometheus.
type BookingRecorder struct{}

func (BookingRecorder) RecordAdmission(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	bookingAdmissionsTotal.WithLabelValues(outcome).Inc()
}

func (BookingRecorder) RecordCancellation(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	bookingCancellationsTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the default registry in the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
