// Package summary implements the period aggregation engine: period filtering,
// decimal sums, derived percentages, month classification and the
// display formatting consumed by the API. Every function here is pure; the
// only mutable type is Tracker, used by clients to discard stale responses.
package summary

import (
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
)

// FilterByPeriod returns the records whose date falls in the period's
// calendar month. Dates are compared in the location they carry, so callers
// decide the local zone (see InLocation). Not DST or timezone safe.
// Records without a date are excluded.
func FilterByPeriod(records []domain.Transaction, p domain.Period) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		if p.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByYear returns the dated records of the given calendar year.
func FilterByYear(records []domain.Transaction, year int) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		if !r.Date.IsZero() && r.Date.Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// InLocation returns a copy of records with every non-zero date moved to loc.
func InLocation(records []domain.Transaction, loc *time.Location) []domain.Transaction {
	if loc == nil {
		return records
	}
	out := make([]domain.Transaction, len(records))
	for i, r := range records {
		if !r.Date.IsZero() {
			r.Date = r.Date.In(loc)
		}
		out[i] = r
	}
	return out
}
