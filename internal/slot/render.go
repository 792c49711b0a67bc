package slot

import (
	"fmt"
	"html"
	"strings"

	"github.com/slotserve/slotserve/internal/destination"
	"github.com/slotserve/slotserve/internal/models"
)

// CTA labels by destination kind. The classification is presentational
// only; it never changes how the destination resolves.
const (
	ctaMessaging = "Chamar no WhatsApp"
	ctaLink      = "Acessar"
)

// Render composes the HTML fragment for the instance's current ad in the
// layout selected by the rendering variant. Layout depends purely on the
// variant, never on the placement. Server-side composition keeps client
// rendering consistent across pages.
func (i *Instance) Render() string {
	i.mu.Lock()
	ad := i.current
	loading := i.loading
	i.mu.Unlock()

	if loading {
		return fmt.Sprintf(`<div class="ad-slot ad-slot--%s ad-slot--loading"></div>`, i.Variant)
	}

	art := i.engine.Images.Artwork(ad.ImageRef)
	_, kind := i.engine.Destinations.Resolve(ad.DestinationRef)

	var parts []string
	parts = append(parts, fmt.Sprintf(`<div class="ad-slot ad-slot--%s" data-slot-id="%s">`, i.Variant, html.EscapeString(i.ID)))
	parts = append(parts, fmt.Sprintf(`<img class="ad-slot__image" src="%s" alt="%s" onerror="this.dataset.failed=1">`,
		html.EscapeString(art.Source()), html.EscapeString(ad.Title)))
	parts = append(parts, `<div class="ad-slot__body">`)
	parts = append(parts, fmt.Sprintf(`<h3 class="ad-slot__title">%s</h3>`, html.EscapeString(ad.Title)))
	if ad.Description != "" && i.Variant != models.VariantBar {
		// The bar layout has no room for body copy.
		parts = append(parts, fmt.Sprintf(`<p class="ad-slot__description">%s</p>`, html.EscapeString(ad.Description)))
	}
	if kind != destination.KindNone {
		label := ctaLink
		cls := "ad-slot__cta--link"
		if kind == destination.KindMessaging {
			label = ctaMessaging
			cls = "ad-slot__cta--messaging"
		}
		parts = append(parts, fmt.Sprintf(`<span class="ad-slot__cta %s">%s</span>`, cls, label))
	}
	parts = append(parts, `</div></div>`)
	return strings.Join(parts, "")
}
