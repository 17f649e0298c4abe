package domain

import (
	"fmt"
	"time"
)

// ============================================================
// Period — (month, year) bucket key
// ============================================================

const (
	MinPeriodYear = 2000
	MaxPeriodYear = 9999
)

// Period identifies a calendar month. It is a filter key only and is never persisted.
type Period struct {
	Month int `json:"mes"`
	Year  int `json:"ano"`
}

// PeriodOf returns the period containing t, in t's own location.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Validate checks the month and year ranges accepted by the API.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return &ErrValidation{Field: "mes", Message: "Mês deve estar entre 1 e 12"}
	}
	if p.Year < MinPeriodYear || p.Year > MaxPeriodYear {
		return &ErrValidation{Field: "ano", Message: fmt.Sprintf("Ano deve estar entre %d e %d", MinPeriodYear, MaxPeriodYear)}
	}
	return nil
}

// Contains reports whether t falls in the period. The comparison uses the
// location carried by t; no timezone normalisation happens here.
func (p Period) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return int(t.Month()) == p.Month && t.Year() == p.Year
}

// Days returns the number of days in the month, leap years included.
func (p Period) Days() int {
	// day 0 of the next month is the last day of this one
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Prev returns the previous calendar month.
func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Month: 1, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

// Key returns the period as "YYYY-MM".
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (p Period) String() string {
	return p.Key()
}
