package config

import "time"

const (
	// Trust score
	InitialTrustScore = 50
	MaxTrustScore     = 100
	MinTrustScore     = 0
	ResolvedReward    = 5
	RejectedPenalty   = -10

	// Admission control
	RateLimitWindow = 15 * time.Minute
	RateLimitMax    = 5

	// Triage
	TriageTimeout = 20 * time.Second

	// Priority assigned when the triage collaborator is skipped or errors out
	NeutralPriorityScore = 50
)
