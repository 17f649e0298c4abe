package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
)

func TestPeriod_Days(t *testing.T) {
	tests := []struct {
		p    domain.Period
		days int
	}{
		{domain.Period{Month: 2, Year: 2024}, 29},
		{domain.Period{Month: 2, Year: 2023}, 28},
		{domain.Period{Month: 2, Year: 2000}, 29},
		{domain.Period{Month: 2, Year: 2100}, 28},
		{domain.Period{Month: 12, Year: 2024}, 31},
		{domain.Period{Month: 11, Year: 2024}, 30},
	}
	for _, tt := range tests {
		if got := tt.p.Days(); got != tt.days {
			t.Errorf("%s: expected %d days, got %d", tt.p, tt.days, got)
		}
	}
}

func TestPeriod_Navigation(t *testing.T) {
	jan := domain.Period{Month: 1, Year: 2024}
	if prev := jan.Prev(); prev != (domain.Period{Month: 12, Year: 2023}) {
		t.Errorf("unexpected prev %v", prev)
	}
	dec := domain.Period{Month: 12, Year: 2024}
	if next := dec.Next(); next != (domain.Period{Month: 1, Year: 2025}) {
		t.Errorf("unexpected next %v", next)
	}
}

func TestPeriod_Validate(t *testing.T) {
	var validation *domain.ErrValidation
	if err := (domain.Period{Month: 13, Year: 2024}).Validate(); !errors.As(err, &validation) {
		t.Errorf("expected validation error for month 13, got %v", err)
	}
	if err := (domain.Period{Month: 5, Year: 1999}).Validate(); !errors.As(err, &validation) {
		t.Errorf("expected validation error for 1999, got %v", err)
	}
	if err := (domain.Period{Month: 5, Year: 2024}).Validate(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestPeriod_Contains(t *testing.T) {
	p := domain.Period{Month: 3, Year: 2024}
	if !p.Contains(time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC)) {
		t.Error("expected March 31st inside March")
	}
	if p.Contains(time.Time{}) {
		t.Error("zero time must never match")
	}
}
