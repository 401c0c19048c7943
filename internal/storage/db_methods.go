package storage

import (
	"encoding/json"
	"errors"

	"civicfix/backend/internal/config"
	"civicfix/backend/internal/models"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditEventChannel is the Redis pub/sub channel carrying live audit entries.
const AuditEventChannel = "audit_events"

// CreateComplaintWithAudit persists a new complaint together with its first
// audit entry. Both writes share one transaction: no observer may ever see a
// complaint without audit history.
func (s *Service) CreateComplaintWithAudit(c *models.Complaint, entry *models.StatusAuditEntry) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		log.WithError(err).WithField("tracking_code", c.TrackingCode).
			Error("failed to persist complaint with audit entry")
		return err
	}
	return nil
}

func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) GetComplaintByTrackingCode(code string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.Where("tracking_code = ?", code).Order("created_at asc").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComplaints returns complaints filtered by status and/or department.
// Empty filter values match everything.
func (s *Service) ListComplaints(status, department string) ([]models.Complaint, error) {
	q := s.DB.Model(&models.Complaint{}).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if department != "" {
		q = q.Where("department = ?", department)
	}
	var out []models.Complaint
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyTransition is the single write path for status changes. The UPDATE is
// conditioned on the status the caller read, so a concurrent transition that
// already moved the record makes this one fail with ErrStaleStatus instead
// of silently double-applying.
func (s *Service) ApplyTransition(id, fromStatus, resolutionImageURL string, entry *models.StatusAuditEntry) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": entry.ToStatus}
		if resolutionImageURL != "" {
			updates["resolution_image_url"] = resolutionImageURL
		}

		res := tx.Model(&models.Complaint{}).
			Where("id = ? AND status = ?", id, fromStatus).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Either the record is gone or another writer got there first.
			var count int64
			if err := tx.Model(&models.Complaint{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrStaleStatus
		}

		return tx.Create(entry).Error
	})
}

func (s *Service) ListAuditTrail(trackingCode string) ([]models.StatusAuditEntry, error) {
	var entries []models.StatusAuditEntry
	err := s.DB.Where("tracking_code = ?", trackingCode).
		Order("created_at asc, id asc").
		Find(&entries).Error
	if err != nil {
		log.WithError(err).WithField("tracking_code", trackingCode).
			Error("failed to load audit trail")
		return nil, err
	}
	return entries, nil
}

// AdjustReporterTrust applies a delta to the reporter's trust score, creating
// the profile with the default score on first contact. The clamp to [0,100]
// happens inside the database so concurrent adjustments for the same reporter
// never lose an update.
func (s *Service) AdjustReporterTrust(reporterID string, delta int) (int, error) {
	rawSQL := `
        INSERT INTO reporter_profiles (reporter_id, trust_score)
        VALUES (?, LEAST(?, GREATEST(?, ? + ?)))
        ON CONFLICT (reporter_id)
        DO UPDATE SET trust_score = LEAST(?, GREATEST(?, reporter_profiles.trust_score + ?))
        RETURNING trust_score
    `
	var newScore int
	err := s.DB.Raw(rawSQL,
		reporterID,
		config.MaxTrustScore, config.MinTrustScore, config.InitialTrustScore, delta,
		config.MaxTrustScore, config.MinTrustScore, delta,
	).Scan(&newScore).Error
	if err != nil {
		return 0, err
	}
	return newScore, nil
}

func (s *Service) GetReporterProfile(reporterID string) (*models.ReporterProfile, error) {
	var p models.ReporterProfile
	err := s.DB.Where("reporter_id = ?", reporterID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AddUpvote counts a vote exactly once per voter. The row is locked for the
// duration of the transaction so two concurrent votes from the same identity
// cannot both pass the membership check.
func (s *Service) AddUpvote(id, voterID string) (int, error) {
	var newCount int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var c models.Complaint
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if c.HasUpvoteFrom(voterID) {
			return ErrAlreadyUpvoted
		}

		newCount = c.Upvotes + 1
		return tx.Model(&c).Updates(map[string]interface{}{
			"upvotes":    newCount,
			"upvoted_by": gorm.Expr("array_append(upvoted_by, ?)", voterID),
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

func (s *Service) SaveFeedback(id string, rating int, text string) error {
	res := s.DB.Model(&models.Complaint{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"feedback_rating": rating,
			"feedback_text":   text,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PublishAuditEvent pushes a freshly appended audit entry onto the Redis
// pub/sub channel consumed by the staff live feed. Best effort: a nil Redis
// client (admin CLI, tests) is a no-op.
func (s *Service) PublishAuditEvent(entry models.StatusAuditEntry) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, AuditEventChannel, string(payload)).Err()
}

// SubscribeAuditEvents subscribes to the live audit entry channel.
func (s *Service) SubscribeAuditEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, AuditEventChannel)
}
