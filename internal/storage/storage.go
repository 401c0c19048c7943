package storage

import (
	"context"
	"errors"

	"civicfix/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no complaint matches the given id or code.
	ErrNotFound = errors.New("complaint not found")
	// ErrStaleStatus is returned when a transition lost the race against a
	// concurrent writer: the record's status no longer matches the status
	// the caller validated against.
	ErrStaleStatus = errors.New("complaint status changed concurrently")
	// ErrAlreadyUpvoted is returned on a repeat upvote from the same voter.
	ErrAlreadyUpvoted = errors.New("voter already upvoted this complaint")
)

type Storage interface {
	CreateComplaintWithAudit(c *models.Complaint, entry *models.StatusAuditEntry) error
	GetComplaintByID(id string) (*models.Complaint, error)
	GetComplaintByTrackingCode(code string) (*models.Complaint, error)
	ListComplaints(status, department string) ([]models.Complaint, error)

	// ApplyTransition flips the record from fromStatus to entry.ToStatus and
	// appends the audit entry in one transaction. resolutionImageURL is only
	// written when non-empty.
	ApplyTransition(id, fromStatus, resolutionImageURL string, entry *models.StatusAuditEntry) error
	ListAuditTrail(trackingCode string) ([]models.StatusAuditEntry, error)

	AdjustReporterTrust(reporterID string, delta int) (int, error)
	GetReporterProfile(reporterID string) (*models.ReporterProfile, error)

	AddUpvote(id, voterID string) (int, error)
	SaveFeedback(id string, rating int, text string) error

	PublishAuditEvent(entry models.StatusAuditEntry) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}
