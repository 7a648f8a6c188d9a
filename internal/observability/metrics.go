package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_registrations_total",
			Help: "Total registration attempts by result.",
		},
		[]string{"result"},
	)

	authenticationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_authentications_total",
			Help: "Total authentication attempts by result.",
		},
		[]string{"result"},
	)

	tokenRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_token_refreshes_total",
			Help: "Total token refreshes, split by whether the refresh token rotated.",
		},
		[]string{"rotated"},
	)

	sessionsCleanedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "identity_sessions_cleaned_total",
			Help: "Total expired sessions removed by the background sweeper.",
		},
	)
)

// Init registers the identity metrics in the default registry.
func Init() {
	prometheus.MustRegister(
		registrationsTotal,
		authenticationsTotal,
		tokenRefreshesTotal,
		sessionsCleanedTotal,
	)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveRegistration(ok bool) {
	registrationsTotal.WithLabelValues(result(ok)).Inc()
}

func ObserveAuthentication(ok bool) {
	authenticationsTotal.WithLabelValues(result(ok)).Inc()
}

func ObserveTokenRefresh(rotated bool) {
	tokenRefreshesTotal.WithLabelValues(strconv.FormatBool(rotated)).Inc()
}

func ObserveSessionsCleaned(n int64) {
	sessionsCleanedTotal.Add(float64(n))
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
