// Package intake coordinates the admission of a new complaint: rate limit,
// input validation, triage, department routing, and the initial persist with
// its paired audit entry.
package intake

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"civicfix/backend/internal/metrics"
	"civicfix/backend/internal/models"
	"civicfix/backend/internal/notify"
	"civicfix/backend/internal/ratelimit"
	"civicfix/backend/internal/routing"
	"civicfix/backend/internal/storage"
	"civicfix/backend/internal/triage"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrRateLimited means the source address exhausted its submission
	// window. Transient: the caller should back off and retry later.
	ErrRateLimited = errors.New("too many submissions from this address, try again later")
	// ErrInvalidInput means category or description is missing.
	ErrInvalidInput = errors.New("category and description are required")
	// ErrUnauthenticated means the caller could not be identified as a
	// logged-in principal.
	ErrUnauthenticated = errors.New("submission requires a logged-in reporter")
)

// TriageRejectedError carries the evaluator's analysis back to the submitter
// so a legitimate user understands why the submission did not go through.
type TriageRejectedError struct {
	Reason string
}

func (e *TriageRejectedError) Error() string {
	return "submission rejected by automated validation: " + e.Reason
}

// Submission is everything the entry point knows about one attempt.
type Submission struct {
	SourceAddr        string
	ReporterID        string
	Category          string
	Description       string
	Address           string
	Latitude          *float64
	Longitude         *float64
	ImageURL          string // evidence ref from the evidence store, may be empty
	ImageBytes        []byte // raw image for triage, may be nil
	ImageMime         string
	DeviceFingerprint string
}

// Service is the intake orchestrator.
type Service struct {
	Limiter  *ratelimit.Limiter
	Triage   *triage.Evaluator
	Storage  storage.Storage
	Notifier notify.Notifier
}

func NewService(limiter *ratelimit.Limiter, evaluator *triage.Evaluator, s storage.Storage, n notify.Notifier) *Service {
	return &Service{Limiter: limiter, Triage: evaluator, Storage: s, Notifier: n}
}

// Submit runs the full admission sequence. On success exactly one complaint
// and exactly one audit entry exist; on any rejection nothing was written.
func (s *Service) Submit(ctx context.Context, sub Submission) (*models.Complaint, error) {
	if !s.Limiter.Admit(sub.SourceAddr) {
		metrics.SubmissionsTotal.WithLabelValues("rate_limited").Inc()
		return nil, ErrRateLimited
	}

	if sub.Category == "" || sub.Description == "" {
		metrics.SubmissionsTotal.WithLabelValues("invalid_input").Inc()
		return nil, ErrInvalidInput
	}

	if sub.ReporterID == "" || sub.ReporterID == models.AnonymousReporter {
		metrics.SubmissionsTotal.WithLabelValues("unauthenticated").Inc()
		return nil, ErrUnauthenticated
	}

	verdict := s.Triage.Evaluate(ctx, triage.Request{
		Category:    sub.Category,
		Description: sub.Description,
		Image:       sub.ImageBytes,
		MimeType:    sub.ImageMime,
	})
	metrics.TriageVerdictsTotal.WithLabelValues(string(verdict.Source)).Inc()
	if verdict.Rejected() {
		metrics.SubmissionsTotal.WithLabelValues("triage_rejected").Inc()
		return nil, &TriageRejectedError{Reason: verdict.Analysis}
	}

	priority := verdict.PriorityScore
	complaint := &models.Complaint{
		TrackingCode:      GenerateTrackingCode(),
		Category:          sub.Category,
		Description:       sub.Description,
		Address:           sub.Address,
		Latitude:          sub.Latitude,
		Longitude:         sub.Longitude,
		ImageURL:          sub.ImageURL,
		Status:            models.StatusPending,
		Department:        routing.Route(sub.Category),
		ReporterID:        sub.ReporterID,
		SourceIP:          sub.SourceAddr,
		DeviceFingerprint: sub.DeviceFingerprint,
		PriorityScore:     &priority,
		AIAnalysis:        verdict.Analysis,
	}

	entry := &models.StatusAuditEntry{
		TrackingCode: complaint.TrackingCode,
		FromStatus:   models.StatusNone,
		ToStatus:     models.StatusPending,
		Remark:       "complaint registered",
		ActorID:      models.ActorSystem,
	}

	if err := s.Storage.CreateComplaintWithAudit(complaint, entry); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to register complaint: %w", err)
	}
	metrics.SubmissionsTotal.WithLabelValues("created").Inc()

	if err := s.Storage.PublishAuditEvent(*entry); err != nil {
		log.WithError(err).Warn("failed to publish audit event")
	}

	s.Notifier.Notify(complaint.Department, notify.TemplateNewComplaint, map[string]string{
		"tracking_code": complaint.TrackingCode,
		"category":      complaint.Category,
		"department":    complaint.Department,
	})

	log.WithFields(log.Fields{
		"tracking_code": complaint.TrackingCode,
		"category":      complaint.Category,
		"department":    complaint.Department,
		"triage_source": verdict.Source,
	}).Info("complaint registered")

	return complaint, nil
}

const trackingCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTrackingCode produces a short human-shareable handle of the form
// "C-XXXXXX". Collisions are tolerated: the code is a convenience reference,
// the opaque record id is the primary key.
func GenerateTrackingCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; fall back to
		// a constant-free panic rather than handing out duplicate codes.
		panic(fmt.Sprintf("tracking code entropy unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = trackingCodeCharset[int(b)%len(trackingCodeCharset)]
	}
	return "C-" + string(buf)
}
