// internal/metrics/metrics.go

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeteat_session_transitions_total",
		Help: "Session state transitions",
	}, []string{"from", "to"})

	geoFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeteat_geo_failures_total",
		Help: "Geolocation acquisition failures by code",
	}, []string{"code"})

	pollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeteat_poll_cycles_total",
		Help: "Completed poll cycles per poller",
	}, []string{"poller"})

	pollFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeteat_poll_failures_total",
		Help: "Failed poll cycles per poller",
	}, []string{"poller"})

	invitesPresented = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meeteat_invites_presented_total",
		Help: "Incoming invites surfaced to the user",
	})

	notificationsPresented = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meeteat_notifications_presented_total",
		Help: "Notifications surfaced to the user",
	})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "meeteat_api_request_duration_seconds",
		Help:    "Backend request latency by path",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "status"})
)

func RecordSessionTransition(from, to string) {
	sessionTransitions.WithLabelValues(from, to).Inc()
}

func RecordGeoFailure(code string) {
	geoFailures.WithLabelValues(code).Inc()
}

func RecordPollCycle(poller string) {
	pollCycles.WithLabelValues(poller).Inc()
}

func RecordPollFailure(poller string) {
	pollFailures.WithLabelValues(poller).Inc()
}

func RecordInvitePresented() {
	invitesPresented.Inc()
}

func RecordNotificationPresented() {
	notificationsPresented.Inc()
}

func ObserveAPIRequest(path, status string, seconds float64) {
	apiRequestDuration.WithLabelValues(path, status).Observe(seconds)
}
