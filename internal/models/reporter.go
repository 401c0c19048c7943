package models

// ReporterProfile is the credibility record for a non-anonymous reporter.
// Created lazily on the first terminal outcome affecting that reporter;
// TrustScore stays within [0,100].
type ReporterProfile struct {
	ReporterID string `gorm:"primaryKey" json:"reporter_id"`
	TrustScore int    `json:"trust_score"`
}
