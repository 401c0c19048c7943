package routing_test

import (
	"testing"

	"civicfix/backend/internal/models"
	"civicfix/backend/internal/routing"

	"github.com/stretchr/testify/assert"
)

// TestRoute verifies the category to department table, including the
// catch-all default for unrecognized categories.
func TestRoute(t *testing.T) {
	cases := []struct {
		category string
		want     string
	}{
		{models.CategoryPothole, "Public Works"},
		{models.CategoryGarbage, "Sanitation"},
		{models.CategoryWater, "Water Supply"},
		{models.CategoryElectricity, "Electricity Board"},
		{models.CategoryPollution, "Environment"},
		{models.CategoryInfrastructure, "Public Works"},
		{"graffiti", routing.DefaultDepartment},
		{"", routing.DefaultDepartment},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, routing.Route(tc.category), "category %q", tc.category)
	}
}

// TestKnownCategory verifies membership in the fixed category set.
func TestKnownCategory(t *testing.T) {
	assert.True(t, routing.KnownCategory(models.CategoryPothole))
	assert.False(t, routing.KnownCategory("graffiti"))
}
