// Package selection tracks which lists are marked for bulk export. The set
// lives in memory only and starts empty on every run.
package selection

import (
	"sort"
	"sync"
)

// Tracker is a session-scoped set of list identifiers.
type Tracker struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{ids: make(map[int64]struct{})}
}

// Toggle adds or removes id from the set.
func (t *Tracker) Toggle(id int64, active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if active {
		t.ids[id] = struct{}{}
	} else {
		delete(t.ids, id)
	}
}

// Remove drops id from the set. Called when a list is deleted so the tracker
// never references a list that no longer exists.
func (t *Tracker) Remove(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.ids, id)
}

// Contains reports whether id is currently selected.
func (t *Tracker) Contains(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.ids[id]
	return ok
}

// Current returns a sorted snapshot of the selected ids.
func (t *Tracker) Current() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]int64, 0, len(t.ids))
	for id := range t.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of selected lists.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.ids)
}
