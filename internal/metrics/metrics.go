// Package metrics exposes the Prometheus counters for the auth flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// registrations counts Register calls by outcome.
	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Total number of registration attempts by outcome",
	}, []string{"outcome"})

	// logins counts Login calls by outcome.
	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	// tokenVerifications counts guard-side token checks by result.
	tokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_token_verifications_total",
		Help: "Total number of bearer token verifications by result",
	}, []string{"result"})
)

func RecordRegistration(outcome string) {
	registrations.WithLabelValues(outcome).Inc()
}

func RecordLogin(outcome string) {
	logins.WithLabelValues(outcome).Inc()
}

func RecordTokenVerification(result string) {
	tokenVerifications.WithLabelValues(result).Inc()
}
