package directory

import (
	"strings"

	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
)

// featuredLimit caps the landing-page highlight subset.
const featuredLimit = 6

// Criteria are the public browsing filters. Empty or "all" values match
// everything; each criterion is independent, so application order never
// changes the result.
type Criteria struct {
	Search string
	State  string
	City   string
}

func (c Criteria) hasState() bool {
	return c.State != "" && !strings.EqualFold(c.State, "all")
}

func (c Criteria) hasCity() bool {
	return c.City != "" && !strings.EqualFold(c.City, "all")
}

func (c Criteria) matches(record *models.Institution) bool {
	if search := strings.ToLower(strings.TrimSpace(c.Search)); search != "" {
		name := strings.ToLower(record.Name)
		city := strings.ToLower(record.City)
		if !strings.Contains(name, search) && !strings.Contains(city, search) {
			return false
		}
	}
	if c.hasState() && record.State != c.State {
		return false
	}
	if c.hasCity() && record.City != c.City {
		return false
	}
	return true
}

// Filter recomputes the visible subset from the full in-memory record set.
func Filter(records []models.Institution, criteria Criteria) []models.Institution {
	filtered := make([]models.Institution, 0, len(records))
	for i := range records {
		if criteria.matches(&records[i]) {
			filtered = append(filtered, records[i])
		}
	}
	return filtered
}

// Featured returns the first few filtered records whose status is verified
// or absent. Pending and rejected records stay in the full list but never
// make the highlight subset.
func Featured(filtered []models.Institution) []models.Institution {
	featured := make([]models.Institution, 0, featuredLimit)
	for i := range filtered {
		if !filtered[i].FeaturedEligible() {
			continue
		}
		featured = append(featured, filtered[i])
		if len(featured) == featuredLimit {
			break
		}
	}
	return featured
}

// CityOptions derives the distinct city list among records in the selected
// state, preserving first-seen order. Without a state selection the dependent
// selector has nothing to offer.
func CityOptions(records []models.Institution, criteria Criteria) []string {
	if !criteria.hasState() {
		return []string{}
	}
	seen := map[string]bool{}
	options := []string{}
	for i := range records {
		if records[i].State != criteria.State {
			continue
		}
		if city := records[i].City; city != "" && !seen[city] {
			seen[city] = true
			options = append(options, city)
		}
	}
	return options
}
