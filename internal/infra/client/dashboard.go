package client

import (
	"context"
	"sync"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/summary"

	"go.uber.org/zap"
)

// SummaryFetcher fetches the period summary shown by a Dashboard.
type SummaryFetcher interface {
	GetSummary(ctx context.Context, p domain.Period) (*domain.PeriodSummary, error)
}

// Dashboard keeps the summary of the selected period. Responses for a period
// the user has already navigated away from, or older than the one on screen,
// are discarded.
type Dashboard struct {
	fetcher SummaryFetcher
	tracker *summary.Tracker
	logger  *zap.Logger

	mu      sync.RWMutex
	current *domain.PeriodSummary
}

func NewDashboard(fetcher SummaryFetcher, initial domain.Period, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		fetcher: fetcher,
		tracker: summary.NewTracker(initial),
		logger:  logger,
	}
}

// Select switches to p and fetches its summary. applied is false when the
// response arrived after a newer selection and was dropped.
func (d *Dashboard) Select(ctx context.Context, p domain.Period) (applied bool, err error) {
	return d.fetch(ctx, d.tracker.Select(p))
}

// Refresh refetches the selected period.
func (d *Dashboard) Refresh(ctx context.Context) (applied bool, err error) {
	return d.fetch(ctx, d.tracker.Begin())
}

// Selected returns the selected period.
func (d *Dashboard) Selected() domain.Period {
	return d.tracker.Selected()
}

// Current returns the last applied summary, nil before the first one.
func (d *Dashboard) Current() *domain.PeriodSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

func (d *Dashboard) fetch(ctx context.Context, tag summary.Tag) (bool, error) {
	s, err := d.fetcher.GetSummary(ctx, tag.Period)
	if err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.tracker.Accept(tag) {
		d.logger.Debug("discarding stale summary",
			zap.String("period", tag.Period.Key()),
			zap.Uint64("seq", tag.Seq),
		)
		return false, nil
	}
	d.current = s
	return true, nil
}
