// Package routing maps complaint categories to the organizational unit
// responsible for them.
package routing

import "civicfix/backend/internal/models"

// DefaultDepartment receives anything the table does not recognize.
const DefaultDepartment = "General Administration"

var departments = map[string]string{
	models.CategoryPothole:        "Public Works",
	models.CategoryGarbage:        "Sanitation",
	models.CategoryWater:          "Water Supply",
	models.CategoryElectricity:    "Electricity Board",
	models.CategoryPollution:      "Environment",
	models.CategoryInfrastructure: "Public Works",
}

// Route returns the department responsible for a category. Total: unknown
// categories fall through to DefaultDepartment.
func Route(category string) string {
	if dept, ok := departments[category]; ok {
		return dept
	}
	return DefaultDepartment
}

// KnownCategory reports whether the category is part of the fixed set.
func KnownCategory(category string) bool {
	_, ok := departments[category]
	return ok
}
