package repository

import (
	"slices"

	"alert-srv/internal/model"
)

// Match reports whether a satisfies f. Stores without a query language use it directly.
func (f Filter) Match(a model.Alert) bool {
	if f.Statuses != nil && !slices.Contains(f.Statuses, a.Status) {
		return false
	}
	if f.Severities != nil && !slices.Contains(f.Severities, a.Severity) {
		return false
	}
	if f.Areas != nil && !slices.Contains(f.Areas, a.Area) {
		return false
	}
	if f.ExpiresBy != nil && a.ExpiresAt.After(*f.ExpiresBy) {
		return false
	}
	if len(f.ExcludeIDs) > 0 && slices.Contains(f.ExcludeIDs, a.ID) {
		return false
	}
	return true
}
