package models

// Placement identifies a named UI position where an ad may appear.
// The set is fixed by the front-end layouts; an unknown placement is
// rejected at the API boundary.
type Placement string

const (
	PlacementSidebar      Placement = "sidebar"
	PlacementFeed         Placement = "feed-horizontal"
	PlacementDetail       Placement = "detail-page"
	PlacementHero         Placement = "hero"
	PlacementHeaderBar    Placement = "header-bar"
	PlacementFooter       Placement = "footer"
	PlacementInterstitial Placement = "interstitial"
)

// Valid reports whether p is one of the known placements.
func (p Placement) Valid() bool {
	switch p {
	case PlacementSidebar, PlacementFeed, PlacementDetail, PlacementHero,
		PlacementHeaderBar, PlacementFooter, PlacementInterstitial:
		return true
	}
	return false
}

// Variant selects the layout a slot is rendered with. It is independent of
// the placement: the same placement may be mounted with different variants.
type Variant string

const (
	VariantHorizontal Variant = "horizontal"
	VariantVertical   Variant = "vertical"
	VariantBar        Variant = "bar"
)

// Valid reports whether v is one of the known rendering variants.
func (v Variant) Valid() bool {
	switch v {
	case VariantHorizontal, VariantVertical, VariantBar:
		return true
	}
	return false
}

// Ad is a promotional item as returned by the inventory backend. The record
// is read-only to this service: the view/click counters are owned by the
// backend and only move indirectly through logged engagement events.
type Ad struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// ImageRef is either an absolute URL, a storage-relative path, or empty.
	ImageRef string `json:"image_ref"`
	// DestinationRef is a phone-like digit string, a URL, or empty.
	DestinationRef string    `json:"destination_ref"`
	Placement      Placement `json:"placement"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	ViewsCount     int64     `json:"views_count"`
	ClicksCount    int64     `json:"clicks_count"`
}

// SentinelAdID is reserved for the built-in fallback ad. Events with this
// target id must never be emitted.
const SentinelAdID = 0

// SentinelAd returns the built-in house ad shown when a slot has no
// candidates. It is never the subject of a logged event.
func SentinelAd() Ad {
	return Ad{
		ID:          SentinelAdID,
		Title:       "Anuncie aqui",
		Description: "Seu anúncio pode aparecer neste espaço.",
	}
}

// IsSentinel reports whether a is the built-in fallback ad.
func (a Ad) IsSentinel() bool {
	return a.ID == SentinelAdID
}
