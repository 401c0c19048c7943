// Package metrics exposes the Prometheus collectors for the complaint
// lifecycle engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civicfix"

var (
	// SubmissionsTotal counts intake attempts by final outcome
	// (created, rate_limited, invalid_input, unauthenticated, triage_rejected, error).
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Total complaint submission attempts by outcome",
		},
		[]string{"outcome"},
	)

	// TriageVerdictsTotal counts triage verdicts by source so fail-open
	// defaults are visible next to real evaluations.
	TriageVerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "triage",
			Name:      "verdicts_total",
			Help:      "Triage verdicts by source (evaluated, skipped, errored)",
		},
		[]string{"source"},
	)

	// TransitionsTotal counts applied status transitions by target status.
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "transitions_total",
			Help:      "Applied status transitions by target status",
		},
		[]string{"to_status"},
	)

	// TrustAdjustmentsTotal counts trust score adjustments by outcome.
	TrustAdjustmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trust",
			Name:      "adjustments_total",
			Help:      "Trust score adjustments by outcome",
		},
		[]string{"outcome"},
	)
)
