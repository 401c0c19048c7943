package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // Needed for pq.StringArray
	"gorm.io/gorm"
)

// Complaint status values. The lifecycle is deliberately permissive: staff
// may move a record between any two states, the only hard guard being that
// a move into StatusResolved needs resolution evidence.
const (
	StatusNone       = "none" // sentinel for the first audit entry only
	StatusPending    = "pending"
	StatusReviewed   = "reviewed"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusEscalated  = "escalated"
)

// Complaint categories.
const (
	CategoryPothole        = "pothole"
	CategoryGarbage        = "garbage"
	CategoryWater          = "water"
	CategoryElectricity    = "electricity"
	CategoryPollution      = "pollution"
	CategoryInfrastructure = "infrastructure"
)

// AnonymousReporter is the sentinel identity for submissions that arrived
// without a logged-in principal (legacy entry points). No ReporterProfile is
// ever created for it.
const AnonymousReporter = "anonymous"

// Complaint is the central record of a citizen-reported infrastructure issue.
// TrackingCode, Category and ReporterID are immutable once assigned.
type Complaint struct {
	ID           string   `gorm:"primaryKey" json:"id"` // opaque UUID
	TrackingCode string   `gorm:"index" json:"tracking_code"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	Address      string   `json:"address,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	// ImageURL is the evidence supplied at submission time,
	// ResolutionImageURL the proof attached when staff resolve the record.
	ImageURL           string `json:"image_url,omitempty"`
	ResolutionImageURL string `json:"resolution_image_url,omitempty"`

	Status     string `gorm:"index" json:"status"`
	Department string `json:"department"`

	ReporterID        string `gorm:"index" json:"reporter_id"`
	SourceIP          string `json:"-"`
	DeviceFingerprint string `json:"-"`

	// Triage output. PriorityScore is nil when triage never produced a score.
	PriorityScore *int   `json:"priority_score,omitempty"`
	AIAnalysis    string `json:"ai_analysis,omitempty"`

	Upvotes   int            `json:"upvotes"`
	UpvotedBy pq.StringArray `gorm:"type:text[]" json:"-"`

	FeedbackRating *int   `json:"feedback_rating,omitempty"`
	FeedbackText   string `json:"feedback_text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates the opaque record id if it is not set yet.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// HasUpvoteFrom reports whether voterID already appears in the voter set.
func (c *Complaint) HasUpvoteFrom(voterID string) bool {
	for _, v := range c.UpvotedBy {
		if v == voterID {
			return true
		}
	}
	return false
}
