// Package visibility fires one-shot callbacks when a rendered slot region
// first overlaps the viewport by at least half of its area.
package visibility

import "sync"

// Threshold is the fraction of a region's area that must intersect the
// viewport before its callback fires. It is an invariant of the view
// contract, not a knob.
const Threshold = 0.5

// Tracker dispatches one-shot visibility callbacks for registered regions.
// A region's callback fires at most once; re-entries after the trigger are
// ignored because the registration is removed on fire.
type Tracker struct {
	mu      sync.Mutex
	regions map[string]func()
}

// NewTracker constructs an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{regions: make(map[string]func())}
}

// Register observes the region identified by id. A later registration for
// the same id replaces the previous one.
func (t *Tracker) Register(id string, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.regions[id] = fn
}

// Observe reports the current intersection ratio for a region. When the
// ratio meets the threshold the callback fires and the registration is
// removed, so no further reports for that region have any effect. Returns
// whether the callback fired.
func (t *Tracker) Observe(id string, ratio float64) bool {
	if ratio < Threshold {
		return false
	}
	t.mu.Lock()
	fn, ok := t.regions[id]
	if ok {
		delete(t.regions, id)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	fn()
	return true
}

// Cancel tears down the region without firing its callback, for instances
// that unmount before ever becoming visible.
func (t *Tracker) Cancel(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.regions, id)
}

// Registered reports whether the region still has a pending callback.
func (t *Tracker) Registered(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.regions[id]
	return ok
}
