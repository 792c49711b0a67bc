// Package assets resolves raw ad image references into displayable URLs and
// tracks the one-shot error fallback for rendered artwork.
package assets

import "strings"

// Resolver turns an ad's image reference into an absolute URL.
type Resolver struct {
	// BaseURL is prepended to storage-relative references.
	BaseURL string
	// PlaceholderURL is returned for empty references.
	PlaceholderURL string
	// ErrorURL replaces artwork that failed to load.
	ErrorURL string
}

// NewResolver constructs a Resolver.
func NewResolver(baseURL, placeholderURL, errorURL string) *Resolver {
	return &Resolver{
		BaseURL:        baseURL,
		PlaceholderURL: placeholderURL,
		ErrorURL:       errorURL,
	}
}

// Resolve applies the fallback chain, first match wins:
// empty reference yields the placeholder, an http(s) reference is treated as
// externally hosted and returned unchanged, anything else is joined onto the
// base URL with a single slash. A redundant leading "api/" segment in
// storage-relative references is stripped.
func (r *Resolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return r.PlaceholderURL
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base := strings.TrimSuffix(r.BaseURL, "/")
	ref = strings.TrimPrefix(ref, "/")
	ref = strings.TrimPrefix(ref, "api/")
	return base + "/" + ref
}

// Artwork is the display state of one rendered image. It remembers whether
// the error fallback has already been applied so a failing error placeholder
// cannot trigger an endless reload loop.
type Artwork struct {
	resolver *Resolver
	src      string
}

// Artwork resolves ref and returns its display state.
func (r *Resolver) Artwork(ref string) *Artwork {
	return &Artwork{resolver: r, src: r.Resolve(ref)}
}

// Source returns the URL the image should currently display.
func (a *Artwork) Source() string {
	return a.src
}

// OnLoadError swaps the source to the error placeholder and reports whether
// a swap happened. The swap occurs at most once: when the failing source is
// already the error placeholder nothing changes.
func (a *Artwork) OnLoadError() bool {
	if a.src == a.resolver.ErrorURL {
		return false
	}
	a.src = a.resolver.ErrorURL
	return true
}
