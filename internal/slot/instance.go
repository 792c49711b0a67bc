package slot

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/slotserve/slotserve/internal/destination"
	"github.com/slotserve/slotserve/internal/inventory"
	"github.com/slotserve/slotserve/internal/models"
)

// Instance is one mounted occurrence of a placement with its own context
// and lifecycle. Simultaneous instances of the same placement are
// independent and may legitimately display different ads.
type Instance struct {
	ID        string
	Placement models.Placement
	Variant   models.Variant
	City      string
	State     string
	Search    string

	engine *Engine

	mu         sync.Mutex
	loading    bool
	candidates []models.Ad
	current    models.Ad
	viewLogged bool
}

// Loading reports whether an inventory fetch is outstanding. Callers render
// a neutral placeholder while this is true.
func (i *Instance) Loading() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.loading
}

// Current returns the ad the instance displays.
func (i *Instance) Current() models.Ad {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.current
}

// Refresh re-fetches the candidate list and re-selects. Selection happens
// once per successful fetch, never per render, so the displayed ad is
// stable between data changes.
func (i *Instance) Refresh(ctx context.Context) {
	i.load(ctx)
}

func (i *Instance) load(ctx context.Context) {
	i.mu.Lock()
	i.loading = true
	i.mu.Unlock()

	q := inventory.Query{Placement: i.Placement, City: i.City, State: i.State, Search: i.Search}
	ads, err := i.engine.Source.FetchCandidates(ctx, q)
	if err != nil {
		// Degrade to the sentinel; inventory trouble is never user-visible.
		i.engine.Logger.Warn("inventory fetch",
			zap.String("placement", string(i.Placement)),
			zap.Error(err),
		)
		ads = nil
	}
	selected := i.engine.Selector.Select(ads)

	i.mu.Lock()
	i.candidates = ads
	i.current = selected
	i.loading = false
	i.mu.Unlock()

	if selected.IsSentinel() {
		i.engine.Metrics.IncrementSentinelServed()
	} else {
		i.engine.Metrics.IncrementSlotsServed(string(i.Placement))
	}
}

// ReportVisibility feeds a viewport-intersection ratio for the instance's
// rendered region. The first report at or above the threshold emits exactly
// one VIEW for the displayed ad; every later report is ignored.
func (i *Instance) ReportVisibility(ratio float64) bool {
	return i.engine.Tracker.Observe(i.ID, ratio)
}

// logView is the one-shot visibility callback.
func (i *Instance) logView() {
	i.mu.Lock()
	ad := i.current
	already := i.viewLogged
	i.viewLogged = true
	i.mu.Unlock()

	if already || ad.IsSentinel() {
		return
	}
	i.engine.Events.Log(ad.ID, models.TargetAd, models.EventView)
}

// Activate handles user activation of the slot. A CLICK is emitted for the
// displayed ad regardless of whether a destination exists (the "dead click"
// is kept as an interest signal); the sentinel ad is never logged. The
// returned target is empty when activation should not navigate.
func (i *Instance) Activate() (string, destination.Kind) {
	i.mu.Lock()
	ad := i.current
	i.mu.Unlock()

	if !ad.IsSentinel() {
		i.engine.Events.Log(ad.ID, models.TargetAd, models.EventClick)
	}
	return i.engine.Destinations.Resolve(ad.DestinationRef)
}
