package models

import "time"

// Actor identities recorded on audit entries that were not made by a
// specific staff member.
const (
	ActorSystem  = "system"
	ActorCitizen = "citizen"
)

// StatusAuditEntry is one immutable step in a complaint's timeline. Entries
// are append-only; the ordered sequence for a tracking code is the
// authoritative history of the record. The very first entry of every
// complaint goes from StatusNone to StatusPending.
type StatusAuditEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TrackingCode string    `gorm:"index" json:"tracking_code"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	Remark       string    `json:"remark"`
	ActorID      string    `json:"actor_id"`
	CreatedAt    time.Time `json:"created_at"`
}
