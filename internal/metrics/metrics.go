// Package metrics exposes Prometheus counters for the roster service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationsTotal counts full roster validations, labelled by verdict.
	ValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_validations_total",
		Help: "Roster validations run, by verdict (valid/invalid).",
	}, []string{"verdict"})

	// SubmissionsTotal counts submit attempts, labelled by outcome.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_submissions_total",
		Help: "Roster submit attempts, by outcome (accepted/rejected).",
	}, []string{"outcome"})

	// SessionsLockedTotal counts sessions permanently locked, by trigger.
	SessionsLockedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_sessions_locked_total",
		Help: "Sessions permanently locked, by trigger (deadline/manual).",
	}, []string{"trigger"})

	// TeamsGeneratedTotal counts rosters produced by the team builder.
	TeamsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_teams_generated_total",
		Help: "Rosters generated by the team builder, by strategy.",
	}, []string{"strategy"})
)

// ObserveValidation records one validation verdict.
func ObserveValidation(valid bool) {
	if valid {
		ValidationsTotal.WithLabelValues("valid").Inc()
		return
	}
	ValidationsTotal.WithLabelValues("invalid").Inc()
}
