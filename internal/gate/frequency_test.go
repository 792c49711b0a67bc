package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotserve/slotserve/internal/inventory"
	"github.com/slotserve/slotserve/internal/models"
	"github.com/slotserve/slotserve/internal/observability"
	"github.com/slotserve/slotserve/internal/selection"
)

// stubSource returns a fixed candidate list and counts fetches.
type stubSource struct {
	ads     []models.Ad
	err     error
	fetches int
}

func (s *stubSource) FetchCandidates(ctx context.Context, q inventory.Query) ([]models.Ad, error) {
	s.fetches++
	return s.ads, s.err
}

func newTestGate(store Store, source inventory.Source) *Gate {
	g := New(store, source, selection.NewRandomSelector(), zap.NewNop(), observability.NewNoOpRegistry())
	g.Delay = time.Millisecond
	return g
}

func TestCheckClosedWithinCooldown(t *testing.T) {
	store := NewMemoryStore()
	source := &stubSource{ads: []models.Ad{{ID: 3}}}
	g := newTestGate(store, source)

	base := time.Now()
	require.NoError(t, store.MarkShown(context.Background(), "popup:u1", base, g.Cooldown))

	// One hour later the cooldown is still active.
	g.now = func() time.Time { return base.Add(time.Hour) }
	assert.Equal(t, Closed, g.Check(context.Background(), "popup:u1"))

	// A closed gate performs no inventory fetch at all.
	ad, err := g.Present(context.Background(), "popup:u1", inventory.Query{Placement: models.PlacementInterstitial})
	require.NoError(t, err)
	assert.Nil(t, ad)
	assert.Equal(t, 0, source.fetches)
}

func TestCheckOpenAfterCooldown(t *testing.T) {
	store := NewMemoryStore()
	g := newTestGate(store, &stubSource{})

	base := time.Now()
	require.NoError(t, store.MarkShown(context.Background(), "popup:u1", base, g.Cooldown))

	g.now = func() time.Time { return base.Add(25 * time.Hour) }
	assert.Equal(t, Open, g.Check(context.Background(), "popup:u1"))
}

func TestCheckOpenWithoutRecord(t *testing.T) {
	g := newTestGate(NewMemoryStore(), &stubSource{})
	assert.Equal(t, Open, g.Check(context.Background(), "popup:new"))
}

func TestPresentWritesRecordAtDisplayTime(t *testing.T) {
	store := NewMemoryStore()
	source := &stubSource{ads: []models.Ad{{ID: 3, Placement: models.PlacementInterstitial}}}
	g := newTestGate(store, source)

	shown := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return shown }

	ad, err := g.Present(context.Background(), "popup:u1", inventory.Query{Placement: models.PlacementInterstitial})
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, 3, ad.ID)

	got, ok, err := store.LastShown(context.Background(), "popup:u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(shown))
}

func TestPresentDormantWithoutCandidates(t *testing.T) {
	store := NewMemoryStore()
	g := newTestGate(store, &stubSource{})

	ad, err := g.Present(context.Background(), "popup:u1", inventory.Query{Placement: models.PlacementInterstitial})
	require.NoError(t, err)
	assert.Nil(t, ad)

	// No display happened, so no record was written.
	_, ok, err := store.LastShown(context.Background(), "popup:u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPresentFetchFailureIsSilent(t *testing.T) {
	g := newTestGate(NewMemoryStore(), &stubSource{err: errors.New("inventory down")})

	ad, err := g.Present(context.Background(), "popup:u1", inventory.Query{Placement: models.PlacementInterstitial})
	require.NoError(t, err)
	assert.Nil(t, ad)
}

func TestPresentAbortedDuringDelayKeepsCooldownUnconsumed(t *testing.T) {
	store := NewMemoryStore()
	g := newTestGate(store, &stubSource{ads: []models.Ad{{ID: 3}}})
	g.Delay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	ad, err := g.Present(ctx, "popup:u1", inventory.Query{Placement: models.PlacementInterstitial})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ad)

	_, ok, lerr := store.LastShown(context.Background(), "popup:u1")
	require.NoError(t, lerr)
	assert.False(t, ok)
}

type failingStore struct{}

func (failingStore) LastShown(context.Context, string) (time.Time, bool, error) {
	return time.Time{}, false, errors.New("store down")
}
func (failingStore) MarkShown(context.Context, string, time.Time, time.Duration) error {
	return errors.New("store down")
}

func TestCheckFailsOpenOnStoreError(t *testing.T) {
	g := newTestGate(failingStore{}, &stubSource{})
	assert.Equal(t, Open, g.Check(context.Background(), "popup:u1"))
}
