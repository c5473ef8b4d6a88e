package identity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "deskroute"

var (
	signupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "signups_total",
			Help:      "Total signup attempts by outcome",
		},
		[]string{"outcome"},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "logins_total",
			Help:      "Total login attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// recordSignup records a signup attempt metric.
func recordSignup(outcome string) {
	signupsTotal.WithLabelValues(outcome).Inc()
}

// recordLogin records a login attempt metric.
func recordLogin(outcome string) {
	loginsTotal.WithLabelValues(outcome).Inc()
}
