package triage_test

import (
	"context"
	"errors"
	"testing"

	"civicfix/backend/internal/triage"

	"github.com/stretchr/testify/assert"
)

type stubCollaborator struct {
	resp triage.Response
	err  error
}

func (s stubCollaborator) Evaluate(ctx context.Context, req triage.Request) (triage.Response, error) {
	return s.resp, s.err
}

// TestEvaluate_Unconfigured_FailsOpen verifies the neutral default when no
// collaborator is wired: submissions must never be blocked because triage
// is down.
func TestEvaluate_Unconfigured_FailsOpen(t *testing.T) {
	evaluator := triage.NewEvaluator(nil)

	v := evaluator.Evaluate(context.Background(), triage.Request{
		Category:    "pothole",
		Description: "hole in the road",
	})

	assert.Equal(t, triage.SourceSkipped, v.Source)
	assert.True(t, v.IsValid)
	assert.True(t, v.ImageMatches)
	assert.Equal(t, 50, v.PriorityScore)
	assert.False(t, v.Rejected())
	assert.Contains(t, v.Analysis, "skipped")
}

// TestEvaluate_CollaboratorError_FailsOpen verifies errors produce the same
// neutral default but tagged and recorded distinctly from a skip.
func TestEvaluate_CollaboratorError_FailsOpen(t *testing.T) {
	evaluator := triage.NewEvaluator(stubCollaborator{err: errors.New("connection refused")})

	v := evaluator.Evaluate(context.Background(), triage.Request{Category: "water"})

	assert.Equal(t, triage.SourceErrored, v.Source)
	assert.True(t, v.IsValid)
	assert.True(t, v.ImageMatches)
	assert.Equal(t, 50, v.PriorityScore)
	assert.Contains(t, v.Analysis, "errored")
	assert.Contains(t, v.Analysis, "connection refused")
}

// TestEvaluate_RealVerdict passes the collaborator's judgment through.
func TestEvaluate_RealVerdict(t *testing.T) {
	evaluator := triage.NewEvaluator(stubCollaborator{resp: triage.Response{
		IsValid:       true,
		PriorityScore: 85,
		Analysis:      "severe water main leak",
		ImageMatches:  true,
	}})

	v := evaluator.Evaluate(context.Background(), triage.Request{
		Category: "water",
		Image:    []byte{0xFF, 0xD8},
		MimeType: "image/jpeg",
	})

	assert.Equal(t, triage.SourceEvaluated, v.Source)
	assert.Equal(t, 85, v.PriorityScore)
	assert.False(t, v.Rejected())
}

// TestEvaluate_NoImage_NeverMismatch verifies that absence of evidence is
// not a mismatch: without an image, ImageMatches is forced true regardless
// of what the collaborator said.
func TestEvaluate_NoImage_NeverMismatch(t *testing.T) {
	evaluator := triage.NewEvaluator(stubCollaborator{resp: triage.Response{
		IsValid:       true,
		PriorityScore: 40,
		ImageMatches:  false,
	}})

	v := evaluator.Evaluate(context.Background(), triage.Request{Category: "garbage"})

	assert.True(t, v.ImageMatches)
	assert.False(t, v.Rejected())
}

// TestVerdict_Rejected verifies the rejection rule: invalid content or a
// mismatched image.
func TestVerdict_Rejected(t *testing.T) {
	assert.True(t, triage.Verdict{IsValid: false, ImageMatches: true}.Rejected())
	assert.True(t, triage.Verdict{IsValid: true, ImageMatches: false}.Rejected())
	assert.False(t, triage.Verdict{IsValid: true, ImageMatches: true}.Rejected())
}

// TestEvaluate_ClampsScore verifies out-of-range collaborator scores are
// clamped into [0,100].
func TestEvaluate_ClampsScore(t *testing.T) {
	evaluator := triage.NewEvaluator(stubCollaborator{resp: triage.Response{
		IsValid:       true,
		PriorityScore: 250,
		ImageMatches:  true,
	}})
	v := evaluator.Evaluate(context.Background(), triage.Request{Category: "pothole"})
	assert.Equal(t, 100, v.PriorityScore)

	evaluator = triage.NewEvaluator(stubCollaborator{resp: triage.Response{
		IsValid:       true,
		PriorityScore: -10,
		ImageMatches:  true,
	}})
	v = evaluator.Evaluate(context.Background(), triage.Request{Category: "pothole"})
	assert.Equal(t, 0, v.PriorityScore)
}
