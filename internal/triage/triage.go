// Package triage runs the automated pre-acceptance evaluation of a
// complaint: legitimacy, severity and evidence coherence. The evaluation
// itself is delegated to an external collaborator; the decision policy
// around it lives here.
package triage

import (
	"context"
	"fmt"

	"civicfix/backend/internal/config"

	log "github.com/sirupsen/logrus"
)

// Source tags how a verdict came to be, so callers and tests can tell
// "the evaluator said yes" apart from "the evaluator was unavailable and we
// defaulted".
type Source string

const (
	SourceEvaluated Source = "evaluated"
	SourceSkipped   Source = "skipped"
	SourceErrored   Source = "errored"
)

// Verdict is the triage decision for one submission.
type Verdict struct {
	Source        Source
	IsValid       bool
	PriorityScore int // 0..100
	ImageMatches  bool
	Analysis      string
}

// Rejected reports whether the orchestrator must refuse the submission.
func (v Verdict) Rejected() bool {
	return !v.IsValid || !v.ImageMatches
}

// Request carries the submission content under evaluation. Image is optional.
type Request struct {
	Category    string
	Description string
	Image       []byte
	MimeType    string
}

// Response is what the external collaborator reports back.
type Response struct {
	IsValid       bool   `json:"is_valid"`
	PriorityScore int    `json:"priority_score"`
	Analysis      string `json:"analysis"`
	ImageMatches  bool   `json:"image_matches"`
}

// Collaborator is the external content-evaluation service.
type Collaborator interface {
	Evaluate(ctx context.Context, req Request) (Response, error)
}

// Evaluator wraps the collaborator with the fail-open policy: submissions
// are never blocked purely because the triage dependency is down.
type Evaluator struct {
	collaborator Collaborator
}

// NewEvaluator builds an evaluator. A nil collaborator means triage is
// unconfigured; every submission then passes with the neutral default.
func NewEvaluator(c Collaborator) *Evaluator {
	return &Evaluator{collaborator: c}
}

func (e *Evaluator) Evaluate(ctx context.Context, req Request) Verdict {
	if e.collaborator == nil {
		return Verdict{
			Source:        SourceSkipped,
			IsValid:       true,
			PriorityScore: config.NeutralPriorityScore,
			ImageMatches:  true,
			Analysis:      "automated validation skipped: evaluator not configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, config.TriageTimeout)
	defer cancel()

	resp, err := e.collaborator.Evaluate(ctx, req)
	if err != nil {
		log.WithError(err).Warn("triage collaborator failed, admitting with neutral default")
		return Verdict{
			Source:        SourceErrored,
			IsValid:       true,
			PriorityScore: config.NeutralPriorityScore,
			ImageMatches:  true,
			Analysis:      fmt.Sprintf("automated validation errored: %v", err),
		}
	}

	v := Verdict{
		Source:        SourceEvaluated,
		IsValid:       resp.IsValid,
		PriorityScore: clampScore(resp.PriorityScore),
		ImageMatches:  resp.ImageMatches,
		Analysis:      resp.Analysis,
	}
	// Absence of evidence is not a mismatch.
	if len(req.Image) == 0 {
		v.ImageMatches = true
	}
	return v
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
