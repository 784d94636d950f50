package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shareit",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingsRequested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "bookings_requested_total",
			Help:      "Bookings created in WAITING state.",
		},
	)

	bookingDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "booking_decisions_total",
			Help:      "Owner decisions on bookings by resulting status.",
		},
		[]string{"status"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the per-actor rate limiter.",
		},
	)
)

// Register registers all collectors on the default registry. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingsRequested, bookingDecisions, rateLimited)
	})
}

// ObserveHTTP records one finished HTTP request.
func ObserveHTTP(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// IncBookingRequested counts a newly created booking.
func IncBookingRequested() {
	bookingsRequested.Inc()
}

// IncBookingDecision counts an owner decision by resulting status.
func IncBookingDecision(status string) {
	bookingDecisions.WithLabelValues(status).Inc()
}

// IncRateLimited counts a rejected request.
func IncRateLimited() {
	rateLimited.Inc()
}
