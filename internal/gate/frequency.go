// Package gate implements the cross-session frequency cap guarding the
// interstitial placement. A closed gate performs no inventory fetch at all;
// an open gate records its display only at the moment the interstitial
// actually becomes visible.
package gate

import (
	"context"
	"time"

	"github.com/slotserve/slotserve/internal/inventory"
	"github.com/slotserve/slotserve/internal/models"
	"github.com/slotserve/slotserve/internal/observability"
	"github.com/slotserve/slotserve/internal/selection"

	"go.uber.org/zap"
)

// Store persists last-display timestamps across sessions. RedisStore
// implements it in production; MemoryStore backs tests.
type Store interface {
	LastShown(ctx context.Context, key string) (time.Time, bool, error)
	MarkShown(ctx context.Context, key string, t time.Time, window time.Duration) error
}

// State is the gate's decision for a viewer.
type State int

const (
	// Closed means the cooldown is active: no fetch, no display.
	Closed State = iota
	// Open means the viewer is eligible to be shown the interstitial.
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Default timing for the interstitial flow.
const (
	DefaultCooldown = 24 * time.Hour
	DefaultDelay    = 4 * time.Second
)

// Gate decides whether and when the interstitial is presented.
type Gate struct {
	store    Store
	source   inventory.Source
	selector selection.Selector
	logger   *zap.Logger
	metrics  observability.MetricsRegistry

	// Cooldown is the minimum interval between displays per key.
	Cooldown time.Duration
	// Delay is the wait between candidate arrival and display.
	Delay time.Duration

	now func() time.Time
}

// New constructs a Gate with the default cooldown and delay.
func New(store Store, source inventory.Source, selector selection.Selector, logger *zap.Logger, metrics observability.MetricsRegistry) *Gate {
	return &Gate{
		store:    store,
		source:   source,
		selector: selector,
		logger:   logger,
		metrics:  metrics,
		Cooldown: DefaultCooldown,
		Delay:    DefaultDelay,
		now:      time.Now,
	}
}

// Check reports whether the interstitial for key may be shown. A store
// read failure fails open so a degraded store never blanks the placement
// permanently, at the cost of a possible extra impression.
func (g *Gate) Check(ctx context.Context, key string) State {
	t, ok, err := g.store.LastShown(ctx, key)
	if err != nil {
		g.logger.Error("frequency store read", zap.String("key", key), zap.Error(err))
		return Open
	}
	if ok && g.now().Sub(t) < g.Cooldown {
		return Closed
	}
	return Open
}

// Present runs the full interstitial flow for key: gate check, candidate
// fetch, display delay, then the display record write. It returns nil when
// nothing is to be shown (gate closed, no candidates, or fetch failure).
// Cancelling ctx during the delay aborts the display without consuming the
// cooldown.
func (g *Gate) Present(ctx context.Context, key string, q inventory.Query) (*models.Ad, error) {
	if g.Check(ctx, key) == Closed {
		g.metrics.IncrementGateDecision(Closed.String())
		return nil, nil
	}
	g.metrics.IncrementGateDecision(Open.String())

	ads, err := g.source.FetchCandidates(ctx, q)
	if err != nil {
		g.logger.Warn("interstitial fetch", zap.Error(err))
		return nil, nil
	}
	if len(ads) == 0 {
		return nil, nil
	}
	ad := g.selector.Select(ads)

	timer := time.NewTimer(g.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		// The viewer left before the delay elapsed. Nothing was shown, so
		// the cooldown is not consumed.
		return nil, ctx.Err()
	case <-timer.C:
	}

	if err := g.store.MarkShown(ctx, key, g.now(), g.Cooldown); err != nil {
		g.logger.Error("frequency store write", zap.String("key", key), zap.Error(err))
	}
	return &ad, nil
}
