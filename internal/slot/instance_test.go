package slot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotserve/slotserve/internal/assets"
	"github.com/slotserve/slotserve/internal/destination"
	"github.com/slotserve/slotserve/internal/inventory"
	"github.com/slotserve/slotserve/internal/models"
	"github.com/slotserve/slotserve/internal/observability"
	"github.com/slotserve/slotserve/internal/selection"
	"github.com/slotserve/slotserve/internal/telemetry"
)

type stubSource struct {
	ads []models.Ad
	err error
}

func (s *stubSource) FetchCandidates(ctx context.Context, q inventory.Query) ([]models.Ad, error) {
	return s.ads, s.err
}

func newTestEngine(source inventory.Source) (*Engine, *telemetry.Recorder) {
	rec := telemetry.NewRecorder()
	images := assets.NewResolver("https://api.site.com", "https://static.site.com/no-image.png", "https://static.site.com/image-error.png")
	dests := destination.NewResolver("55")
	e := NewEngine(source, selection.NewRandomSelector(), rec, images, dests, zap.NewNop(), observability.NewNoOpRegistry())
	return e, rec
}

func TestMountSelectsFromCandidates(t *testing.T) {
	e, _ := newTestEngine(&stubSource{ads: []models.Ad{{ID: 5}, {ID: 9}}})

	inst := e.Mount(context.Background(), models.PlacementSidebar, models.VariantVertical, "", "", "")
	assert.Contains(t, []int{5, 9}, inst.Current().ID)
	assert.False(t, inst.Loading())
}

func TestMountEmptyInventoryShowsSentinel(t *testing.T) {
	e, rec := newTestEngine(&stubSource{})

	inst := e.Mount(context.Background(), models.PlacementSidebar, models.VariantVertical, "", "", "")
	assert.True(t, inst.Current().IsSentinel())

	// The sentinel is never the subject of a logged event.
	inst.ReportVisibility(1.0)
	inst.Activate()
	assert.Empty(t, rec.Events())
}

func TestMountInventoryFailureShowsSentinel(t *testing.T) {
	e, _ := newTestEngine(&stubSource{err: errors.New("inventory down")})

	inst := e.Mount(context.Background(), models.PlacementFeed, models.VariantHorizontal, "", "", "")
	assert.True(t, inst.Current().IsSentinel())
}

func TestViewLoggedExactlyOnce(t *testing.T) {
	e, rec := newTestEngine(&stubSource{ads: []models.Ad{{ID: 5}}})
	inst := e.Mount(context.Background(), models.PlacementSidebar, models.VariantVertical, "", "", "")

	assert.False(t, inst.ReportVisibility(0.3))
	assert.Equal(t, 0, rec.Count(models.EventView))

	assert.True(t, inst.ReportVisibility(0.6))
	require.Equal(t, 1, rec.Count(models.EventView))
	assert.Equal(t, 5, rec.Events()[0].TargetID)
	assert.Equal(t, models.TargetAd, rec.Events()[0].TargetType)

	// Re-entering the viewport must not log again.
	assert.False(t, inst.ReportVisibility(1.0))
	assert.Equal(t, 1, rec.Count(models.EventView))
}

func TestUnmountBeforeVisibilityEmitsNothing(t *testing.T) {
	e, rec := newTestEngine(&stubSource{ads: []models.Ad{{ID: 5}}})
	inst := e.Mount(context.Background(), models.PlacementSidebar, models.VariantVertical, "", "", "")

	e.Unmount(inst.ID)
	assert.False(t, inst.ReportVisibility(1.0))
	assert.Empty(t, rec.Events())

	_, ok := e.Get(inst.ID)
	assert.False(t, ok)
}

func TestActivateLogsClickAndResolvesDestination(t *testing.T) {
	e, rec := newTestEngine(&stubSource{ads: []models.Ad{{ID: 5, DestinationRef: "meusite.com/promo"}}})
	inst := e.Mount(context.Background(), models.PlacementDetail, models.VariantHorizontal, "", "", "")

	target, kind := inst.Activate()
	assert.Equal(t, "https://meusite.com/promo", target)
	assert.Equal(t, destination.KindLink, kind)
	require.Equal(t, 1, rec.Count(models.EventClick))
	assert.Equal(t, 5, rec.Events()[0].TargetID)
}

func TestDeadClickIsStillLogged(t *testing.T) {
	// Documented observed behavior: a CLICK is emitted even when the ad has
	// no destination configured. Kept as-is, not assumed correct.
	e, rec := newTestEngine(&stubSource{ads: []models.Ad{{ID: 5}}})
	inst := e.Mount(context.Background(), models.PlacementDetail, models.VariantHorizontal, "", "", "")

	target, kind := inst.Activate()
	assert.Empty(t, target)
	assert.Equal(t, destination.KindNone, kind)
	assert.Equal(t, 1, rec.Count(models.EventClick))
}

func TestRefreshReselects(t *testing.T) {
	source := &stubSource{ads: []models.Ad{{ID: 5}}}
	e, _ := newTestEngine(source)
	inst := e.Mount(context.Background(), models.PlacementSidebar, models.VariantVertical, "", "", "")
	assert.Equal(t, 5, inst.Current().ID)

	source.ads = []models.Ad{{ID: 9}}
	inst.Refresh(context.Background())
	assert.Equal(t, 9, inst.Current().ID)
}

func TestMountPresented(t *testing.T) {
	e, rec := newTestEngine(&stubSource{})
	ad := models.Ad{ID: 7, Title: "Pirelli - Promo", Placement: models.PlacementInterstitial, DestinationRef: "47999998888"}

	inst := e.MountPresented(ad, models.VariantVertical)
	assert.Equal(t, 7, inst.Current().ID)

	inst.ReportVisibility(1.0)
	target, kind := inst.Activate()
	assert.Equal(t, destination.KindMessaging, kind)
	assert.True(t, strings.HasSuffix(target, "5547999998888"))
	assert.Equal(t, 1, rec.Count(models.EventView))
	assert.Equal(t, 1, rec.Count(models.EventClick))
}

func TestRenderVariants(t *testing.T) {
	e, _ := newTestEngine(&stubSource{ads: []models.Ad{{
		ID:             5,
		Title:          "Pirelli - Promo Verão",
		Description:    "Pneus com desconto",
		ImageRef:       "ads/banner.jpg",
		DestinationRef: "47999998888",
	}}})

	for _, variant := range []models.Variant{models.VariantHorizontal, models.VariantVertical, models.VariantBar} {
		inst := e.Mount(context.Background(), models.PlacementSidebar, variant, "", "", "")
		html := inst.Render()
		assert.Contains(t, html, "ad-slot--"+string(variant))
		assert.Contains(t, html, "https://api.site.com/ads/banner.jpg")
		assert.Contains(t, html, "Pirelli - Promo Verão")
		assert.Contains(t, html, "Chamar no WhatsApp")
		if variant == models.VariantBar {
			assert.NotContains(t, html, "Pneus com desconto")
		} else {
			assert.Contains(t, html, "Pneus com desconto")
		}
	}
}

func TestRenderGenericLinkCTA(t *testing.T) {
	e, _ := newTestEngine(&stubSource{ads: []models.Ad{{
		ID:             5,
		Title:          "Shell",
		DestinationRef: "meusite.com/promo",
	}}})
	inst := e.Mount(context.Background(), models.PlacementSidebar, models.VariantHorizontal, "", "", "")
	html := inst.Render()
	assert.Contains(t, html, "Acessar")
	assert.NotContains(t, html, "Chamar no WhatsApp")
}
