package summary

import (
	"sync"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
)

// Tag identifies one in-flight fetch: the period it was issued for and its
// position in issue order.
type Tag struct {
	Period domain.Period
	Seq    uint64
}

// Tracker holds the currently selected period of a view and decides which
// fetch responses may still be applied. A response is accepted only while its
// period is still selected and nothing newer has been applied.
type Tracker struct {
	mu       sync.Mutex
	selected domain.Period
	seq      uint64
	applied  uint64
}

// NewTracker starts with initial selected.
func NewTracker(initial domain.Period) *Tracker {
	return &Tracker{selected: initial}
}

// Select switches the view to p and tags the fetch issued for it.
func (t *Tracker) Select(p domain.Period) Tag {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = p
	t.seq++
	return Tag{Period: p, Seq: t.seq}
}

// Begin tags a refresh of the selected period.
func (t *Tracker) Begin() Tag {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	return Tag{Period: t.selected, Seq: t.seq}
}

// Selected returns the current period.
func (t *Tracker) Selected() domain.Period {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected
}

// Accept reports whether the response tagged tag should be applied, and
// records it as applied when it is.
func (t *Tracker) Accept(tag Tag) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tag.Period != t.selected || tag.Seq < t.applied {
		return false
	}
	t.applied = tag.Seq
	return true
}
