package recipes

import (
	"strings"

	"recipebox/models"
)

// Filter returns the recipes whose title or any tag contains query, in their
// original order. The match is case-insensitive and an empty query keeps
// everything.
func Filter(recipes []models.RecipeSummary, query string) []models.RecipeSummary {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		if q == "" || matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r models.RecipeSummary, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
