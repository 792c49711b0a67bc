// Package slot owns the lifecycle of mounted slot instances: candidate
// fetch, selection, rendering, visibility-driven view logging and
// activation handling.
package slot

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotserve/slotserve/internal/assets"
	"github.com/slotserve/slotserve/internal/destination"
	"github.com/slotserve/slotserve/internal/inventory"
	"github.com/slotserve/slotserve/internal/models"
	"github.com/slotserve/slotserve/internal/observability"
	"github.com/slotserve/slotserve/internal/selection"
	"github.com/slotserve/slotserve/internal/telemetry"
	"github.com/slotserve/slotserve/internal/visibility"
)

// Engine wires the resolvers, selector, telemetry sink and visibility
// tracker, and keeps the registry of live slot instances. Instances are
// mutually independent: a fetch failure in one never affects another.
type Engine struct {
	Source       inventory.Source
	Selector     selection.Selector
	Events       telemetry.Logger
	Images       *assets.Resolver
	Destinations *destination.Resolver
	Tracker      *visibility.Tracker
	Logger       *zap.Logger
	Metrics      observability.MetricsRegistry

	mu        sync.Mutex
	instances map[string]*Instance
}

// NewEngine constructs an Engine.
func NewEngine(source inventory.Source, selector selection.Selector, events telemetry.Logger, images *assets.Resolver, dests *destination.Resolver, logger *zap.Logger, metrics observability.MetricsRegistry) *Engine {
	return &Engine{
		Source:       source,
		Selector:     selector,
		Events:       events,
		Images:       images,
		Destinations: dests,
		Tracker:      visibility.NewTracker(),
		Logger:       logger,
		Metrics:      metrics,
		instances:    make(map[string]*Instance),
	}
}

// Mount creates a slot instance for the placement and context, fetches its
// candidates and selects the ad to display. An inventory failure degrades
// to an empty candidate list and therefore to the sentinel ad; it is never
// surfaced to the caller.
func (e *Engine) Mount(ctx context.Context, placement models.Placement, variant models.Variant, city, state, search string) *Instance {
	inst := e.newInstance(placement, variant, city, state, search)
	inst.load(ctx)
	e.register(inst)
	return inst
}

// MountPresented creates an instance already holding a selected ad. The
// interstitial gate uses it after running its own fetch and delay.
func (e *Engine) MountPresented(ad models.Ad, variant models.Variant) *Instance {
	inst := e.newInstance(ad.Placement, variant, ad.City, ad.State, "")
	inst.candidates = []models.Ad{ad}
	inst.current = ad
	e.register(inst)
	e.Metrics.IncrementSlotsServed(string(ad.Placement))
	return inst
}

// Get returns the live instance with the given id.
func (e *Engine) Get(id string) (*Instance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instances[id]
	return inst, ok
}

// Unmount tears the instance down. A pending visibility registration is
// cancelled without firing, so an unseen instance emits nothing.
func (e *Engine) Unmount(id string) {
	e.Tracker.Cancel(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.instances, id)
}

func (e *Engine) newInstance(placement models.Placement, variant models.Variant, city, state, search string) *Instance {
	inst := &Instance{
		ID:        uuid.NewString(),
		Placement: placement,
		Variant:   variant,
		City:      city,
		State:     state,
		Search:    search,
		engine:    e,
	}
	e.Tracker.Register(inst.ID, inst.logView)
	return inst
}

func (e *Engine) register(inst *Instance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.instances[inst.ID] = inst
}
