// Package sla computes a complaint's standing against its category's
// service-level deadline. Pure reads, recomputed on every call, never
// persisted.
package sla

import (
	"time"

	"civicfix/backend/internal/models"
)

const (
	StatusGood     = "good"
	StatusWarning  = "warning"
	StatusBreached = "breached"
)

// warningFraction is the share of the deadline at which a still-open
// complaint flips from good to warning.
const warningFraction = 0.2

const defaultHours = 72

var slaHours = map[string]int{
	models.CategoryElectricity:    12,
	models.CategoryWater:          24,
	models.CategoryGarbage:        24,
	models.CategoryPothole:        48,
	models.CategoryPollution:      48,
	models.CategoryInfrastructure: 72,
}

// Result describes where a complaint stands relative to its deadline.
type Result struct {
	Status         string  `json:"status"`
	HoursRemaining float64 `json:"hours_remaining"`
	HoursOverdue   float64 `json:"hours_overdue"`
	TotalSLAHours  int     `json:"total_sla_hours"`
}

// TotalHours returns the deadline for a category in hours.
func TotalHours(category string) int {
	if h, ok := slaHours[category]; ok {
		return h
	}
	return defaultHours
}

// Evaluate is Eval at time.Now.
func Evaluate(createdAt time.Time, category, currentStatus string) Result {
	return Eval(createdAt, category, currentStatus, time.Now())
}

// Eval computes the SLA standing at the given instant. Resolved complaints
// always come back good with zero remaining/overdue: closed items are not
// subject to breach reporting regardless of how long resolution took.
func Eval(createdAt time.Time, category, currentStatus string, now time.Time) Result {
	total := TotalHours(category)

	if currentStatus == models.StatusResolved {
		return Result{Status: StatusGood, TotalSLAHours: total}
	}

	elapsed := now.Sub(createdAt).Hours()
	remaining := float64(total) - elapsed

	res := Result{TotalSLAHours: total}
	switch {
	case remaining <= 0:
		res.Status = StatusBreached
		res.HoursOverdue = -remaining
	case remaining <= warningFraction*float64(total):
		res.Status = StatusWarning
		res.HoursRemaining = remaining
	default:
		res.Status = StatusGood
		res.HoursRemaining = remaining
	}
	return res
}
