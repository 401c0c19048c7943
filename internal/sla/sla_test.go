package sla_test

import (
	"testing"
	"time"

	"civicfix/backend/internal/models"
	"civicfix/backend/internal/sla"

	"github.com/stretchr/testify/assert"
)

// TestEval_CategoryDeadlines verifies the per-category deadline table and
// the breached/warning/good boundaries around it.
func TestEval_CategoryDeadlines(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		category   string
		elapsed    time.Duration
		wantStatus string
		wantTotal  int
	}{
		{"electricity fresh", models.CategoryElectricity, 1 * time.Hour, sla.StatusGood, 12},
		{"electricity warning", models.CategoryElectricity, 10 * time.Hour, sla.StatusWarning, 12},
		{"electricity breached", models.CategoryElectricity, 13 * time.Hour, sla.StatusBreached, 12},
		{"electricity exactly at deadline", models.CategoryElectricity, 12 * time.Hour, sla.StatusBreached, 12},
		{"water good", models.CategoryWater, 12 * time.Hour, sla.StatusGood, 24},
		{"garbage warning boundary", models.CategoryGarbage, 20 * time.Hour, sla.StatusWarning, 24},
		{"pothole good", models.CategoryPothole, 24 * time.Hour, sla.StatusGood, 48},
		{"pollution breached", models.CategoryPollution, 50 * time.Hour, sla.StatusBreached, 48},
		{"infrastructure good", models.CategoryInfrastructure, 36 * time.Hour, sla.StatusGood, 72},
		{"unknown category uses default", "sidewalk", 36 * time.Hour, sla.StatusGood, 72},
		{"unknown category breached", "sidewalk", 73 * time.Hour, sla.StatusBreached, 72},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := sla.Eval(now.Add(-tc.elapsed), tc.category, models.StatusPending, now)
			assert.Equal(t, tc.wantStatus, res.Status)
			assert.Equal(t, tc.wantTotal, res.TotalSLAHours)
		})
	}
}

// TestEval_WarningFraction verifies warning triggers exactly when the
// remaining time drops to 20% of the total or less.
func TestEval_WarningFraction(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// 24h SLA: warning band is (0, 4.8] hours remaining.
	justOutside := now.Add(-(24*time.Hour - 5*time.Hour)) // 5h remaining
	assert.Equal(t, sla.StatusGood, sla.Eval(justOutside, models.CategoryWater, models.StatusPending, now).Status)

	inside := now.Add(-(24*time.Hour - 4*time.Hour)) // 4h remaining
	assert.Equal(t, sla.StatusWarning, sla.Eval(inside, models.CategoryWater, models.StatusPending, now).Status)
}

// TestEval_ResolvedAlwaysGood verifies closed complaints are exempt from
// breach reporting no matter how long resolution took.
func TestEval_ResolvedAlwaysGood(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	createdAt := now.Add(-500 * time.Hour)

	res := sla.Eval(createdAt, models.CategoryElectricity, models.StatusResolved, now)

	assert.Equal(t, sla.StatusGood, res.Status)
	assert.Zero(t, res.HoursRemaining)
	assert.Zero(t, res.HoursOverdue)
	assert.Equal(t, 12, res.TotalSLAHours)
}

// TestEval_OverdueHours verifies the overdue arithmetic.
func TestEval_OverdueHours(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	createdAt := now.Add(-15 * time.Hour)

	res := sla.Eval(createdAt, models.CategoryElectricity, models.StatusInProgress, now)

	assert.Equal(t, sla.StatusBreached, res.Status)
	assert.InDelta(t, 3.0, res.HoursOverdue, 0.001)
	assert.Zero(t, res.HoursRemaining)
}
