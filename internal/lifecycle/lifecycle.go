// Package lifecycle owns every mutation of an existing complaint: staff
// status transitions, citizen withdrawal, feedback and upvotes. All writes
// on the same record are serialized here.
package lifecycle

import (
	"errors"
	"sync"

	"civicfix/backend/internal/metrics"
	"civicfix/backend/internal/models"
	"civicfix/backend/internal/notify"
	"civicfix/backend/internal/storage"
	"civicfix/backend/internal/trust"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrEvidenceRequired refuses a transition into resolved without proof.
	ErrEvidenceRequired = errors.New("photographic proof of resolution is required")
	// ErrInvalidStatus refuses a target outside the known status set.
	ErrInvalidStatus = errors.New("unknown target status")
	// ErrForbidden refuses a withdrawal whose tracking code does not match
	// the record, or any other ownership failure.
	ErrForbidden = errors.New("not permitted for this complaint")
	// ErrNotPending refuses a withdrawal of a complaint that staff already
	// picked up.
	ErrNotPending = errors.New("only pending complaints can be withdrawn")
	// ErrFeedbackNotAllowed refuses feedback on an unresolved complaint.
	ErrFeedbackNotAllowed = errors.New("feedback is only accepted on resolved complaints")
	// ErrInvalidRating refuses a feedback rating outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// WithdrawRemark is the system-fixed remark on citizen withdrawals.
const WithdrawRemark = "withdrawn by reporter"

var validStatuses = map[string]bool{
	models.StatusPending:    true,
	models.StatusReviewed:   true,
	models.StatusInProgress: true,
	models.StatusResolved:   true,
	models.StatusEscalated:  true,
}

// AllowedTransition is the transition predicate. The graph is deliberately
// permissive so staff can correct misclassifications; the single hard guard
// is that a move into resolved needs resolution evidence.
func AllowedTransition(from, to string, hasEvidence bool) bool {
	if !validStatuses[to] {
		return false
	}
	if to == models.StatusResolved && !hasEvidence {
		return false
	}
	return true
}

// Engine applies guarded state changes to complaints.
type Engine struct {
	Storage  storage.Storage
	Trust    *trust.Adjuster
	Notifier notify.Notifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(s storage.Storage, adjuster *trust.Adjuster, n notify.Notifier) *Engine {
	return &Engine{
		Storage:  s,
		Trust:    adjuster,
		Notifier: n,
		locks:    make(map[string]*sync.Mutex),
	}
}

// recordLock returns the mutex serializing writes for one record id.
func (e *Engine) recordLock(recordID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[recordID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[recordID] = l
	}
	return l
}

// Transition moves a complaint to targetStatus on behalf of actorID,
// appending exactly one audit entry. Evidence may be supplied with the call
// or already be present on the record.
func (e *Engine) Transition(recordID, targetStatus, actorID, remark, resolutionEvidenceRef string) error {
	lock := e.recordLock(recordID)
	lock.Lock()
	defer lock.Unlock()

	c, err := e.Storage.GetComplaintByID(recordID)
	if err != nil {
		return err
	}

	if !validStatuses[targetStatus] {
		return ErrInvalidStatus
	}
	hasEvidence := resolutionEvidenceRef != "" || c.ResolutionImageURL != ""
	if !AllowedTransition(c.Status, targetStatus, hasEvidence) {
		return ErrEvidenceRequired
	}

	entry := &models.StatusAuditEntry{
		TrackingCode: c.TrackingCode,
		FromStatus:   c.Status,
		ToStatus:     targetStatus,
		Remark:       remark,
		ActorID:      actorID,
	}
	if err := e.Storage.ApplyTransition(recordID, c.Status, resolutionEvidenceRef, entry); err != nil {
		return err
	}
	metrics.TransitionsTotal.WithLabelValues(targetStatus).Inc()
	e.afterTransition(c, entry)

	// The reporter earns credibility when staff confirm and resolve the
	// issue. Decoupled: a failed adjustment never fails the transition.
	if targetStatus == models.StatusResolved && c.ReporterID != models.AnonymousReporter {
		metrics.TrustAdjustmentsTotal.WithLabelValues(string(trust.OutcomeResolved)).Inc()
		e.Trust.AdjustAsync(c.ReporterID, trust.OutcomeResolved)
	}
	return nil
}

// Withdraw is the citizen-initiated special case: only the reporter who can
// present both the record id and its tracking code may close their own still
// pending complaint. The evidence guard does not apply; nothing was fixed,
// the record is closed with a system-authored remark.
func (e *Engine) Withdraw(recordID, trackingCode string) error {
	lock := e.recordLock(recordID)
	lock.Lock()
	defer lock.Unlock()

	c, err := e.Storage.GetComplaintByID(recordID)
	if err != nil {
		return err
	}
	if c.TrackingCode != trackingCode {
		return ErrForbidden
	}
	if c.Status != models.StatusPending {
		return ErrNotPending
	}

	entry := &models.StatusAuditEntry{
		TrackingCode: c.TrackingCode,
		FromStatus:   c.Status,
		ToStatus:     models.StatusResolved,
		Remark:       WithdrawRemark,
		ActorID:      models.ActorCitizen,
	}
	if err := e.Storage.ApplyTransition(recordID, c.Status, "", entry); err != nil {
		return err
	}
	metrics.TransitionsTotal.WithLabelValues(models.StatusResolved).Inc()
	e.afterTransition(c, entry)
	return nil
}

// Feedback records the citizen's rating of a resolved complaint.
func (e *Engine) Feedback(recordID string, rating int, text string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	c, err := e.Storage.GetComplaintByID(recordID)
	if err != nil {
		return err
	}
	if c.Status != models.StatusResolved {
		return ErrFeedbackNotAllowed
	}
	return e.Storage.SaveFeedback(recordID, rating, text)
}

// Upvote counts one vote per voter identity and returns the new count.
func (e *Engine) Upvote(recordID, voterID string) (int, error) {
	return e.Storage.AddUpvote(recordID, voterID)
}

func (e *Engine) afterTransition(c *models.Complaint, entry *models.StatusAuditEntry) {
	if err := e.Storage.PublishAuditEvent(*entry); err != nil {
		log.WithError(err).WithField("tracking_code", entry.TrackingCode).
			Warn("failed to publish audit event")
	}

	template := notify.TemplateStatusChanged
	if entry.ToStatus == models.StatusResolved {
		template = notify.TemplateComplaintResolved
	}
	e.Notifier.Notify(c.Department, template, map[string]string{
		"tracking_code": entry.TrackingCode,
		"from_status":   entry.FromStatus,
		"to_status":     entry.ToStatus,
		"remark":        entry.Remark,
	})

	log.WithFields(log.Fields{
		"tracking_code": entry.TrackingCode,
		"from":          entry.FromStatus,
		"to":            entry.ToStatus,
		"actor":         entry.ActorID,
	}).Info("complaint transitioned")
}
