// Package trust maintains reporter credibility scores, adjusting them in
// response to terminal complaint outcomes.
package trust

import (
	"fmt"

	"civicfix/backend/internal/config"
	"civicfix/backend/internal/models"
	"civicfix/backend/internal/storage"

	log "github.com/sirupsen/logrus"
)

// Outcome is a terminal complaint result from the reporter's point of view.
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeRejected Outcome = "rejected"
)

// Adjuster applies bounded trust score deltas.
type Adjuster struct {
	Storage storage.Storage
}

func NewAdjuster(s storage.Storage) *Adjuster {
	return &Adjuster{Storage: s}
}

// Adjust moves the reporter's score by the delta for the outcome and returns
// the new score. The profile is created with the default score on first
// contact; the result is clamped to [0,100] by the storage layer.
func (a *Adjuster) Adjust(reporterID string, outcome Outcome) (int, error) {
	if reporterID == "" || reporterID == models.AnonymousReporter {
		return 0, fmt.Errorf("no trust profile for anonymous reporter")
	}

	var delta int
	switch outcome {
	case OutcomeResolved:
		delta = config.ResolvedReward
	case OutcomeRejected:
		delta = config.RejectedPenalty
	default:
		return 0, fmt.Errorf("unknown trust outcome %q", outcome)
	}

	return a.Storage.AdjustReporterTrust(reporterID, delta)
}

// AdjustAsync runs the adjustment decoupled from the caller. Trust score is
// an advisory signal: a failure here is logged and swallowed, never allowed
// to fail the status transition that triggered it.
func (a *Adjuster) AdjustAsync(reporterID string, outcome Outcome) {
	if reporterID == "" || reporterID == models.AnonymousReporter {
		return
	}
	go func() {
		newScore, err := a.Adjust(reporterID, outcome)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"reporter": reporterID,
				"outcome":  outcome,
			}).Warn("trust score adjustment failed")
			return
		}
		log.WithFields(log.Fields{
			"reporter":  reporterID,
			"outcome":   outcome,
			"new_score": newScore,
		}).Info("trust score adjusted")
	}()
}
