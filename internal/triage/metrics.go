package triage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "deskroute"

var ticketsClassified = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "triage",
		Name:      "tickets_classified_total",
		Help:      "Total tickets classified by assigned department",
	},
	[]string{"department"},
)

// recordClassification records a classification metric.
func recordClassification(department Department) {
	ticketsClassified.WithLabelValues(string(department)).Inc()
}
