package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "play_today",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "play_today",
			Name:      "bookings_created_total",
			Help:      "Bookings created, by activity kind.",
		},
		[]string{"activity"},
	)

	bookingsCanceled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "play_today",
			Name:      "bookings_canceled_total",
			Help:      "Bookings marked canceled.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "play_today",
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected by the conflict detector.",
		},
	)

	seriesSkips = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "play_today",
			Name:      "series_skipped_dates_total",
			Help:      "Series occurrences skipped during expansion.",
		},
	)

	paymentLinkFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "play_today",
			Name:      "payment_link_failures_total",
			Help:      "Payment links that could not be created.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			bookingsCreated,
			bookingsCanceled,
			bookingConflicts,
			seriesSkips,
			paymentLinkFailures,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncBookingCreated(activity string) {
	bookingsCreated.WithLabelValues(activity).Inc()
}

func IncBookingCanceled() {
	bookingsCanceled.Inc()
}

func IncBookingConflict() {
	bookingConflicts.Inc()
}

func AddSeriesSkips(n int) {
	seriesSkips.Add(float64(n))
}

func IncPaymentLinkFailure() {
	paymentLinkFailures.Inc()
}
