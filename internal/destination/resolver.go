// Package destination resolves raw ad destination references into openable
// targets. Phone-like references become messaging deep links; everything
// else becomes a fully-qualified URL.
package destination

import (
	"regexp"
	"strings"
)

// Kind classifies a resolved target for call-to-action presentation only.
// It never changes resolution behavior.
type Kind string

const (
	// KindNone means the ad has no destination; activation must no-op.
	KindNone Kind = "none"
	// KindMessaging is a phone-like or messaging-host target.
	KindMessaging Kind = "messaging"
	// KindLink is a generic web link.
	KindLink Kind = "link"
)

const messagingHost = "wa.me"

// phoneDigits keeps at most this many trailing digits of a cleaned number,
// guarding against users entering a leading country/area-code variant.
const phoneDigits = 11

var nonDigit = regexp.MustCompile(`\D`)

// Resolver builds openable targets from raw destination references.
type Resolver struct {
	// CountryPrefix is prepended to cleaned phone numbers, e.g. "55".
	CountryPrefix string
}

// NewResolver constructs a Resolver with the given country prefix.
func NewResolver(countryPrefix string) *Resolver {
	return &Resolver{CountryPrefix: countryPrefix}
}

// Resolve turns ref into an openable target. An empty reference yields an
// empty target and KindNone. A reference whose non-digit characters strip
// away to a number, and which carries no http scheme, is treated as a phone
// and becomes a messaging deep link over the last 11 digits. Anything else
// is returned as a URL, gaining an https:// scheme when it lacks one.
func (r *Resolver) Resolve(ref string) (string, Kind) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", KindNone
	}

	digits := nonDigit.ReplaceAllString(ref, "")
	if digits != "" && !strings.Contains(strings.ToLower(ref), "http") {
		if len(digits) > phoneDigits {
			digits = digits[len(digits)-phoneDigits:]
		}
		return "https://" + messagingHost + "/" + r.CountryPrefix + digits, KindMessaging
	}

	target := ref
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}
	if strings.Contains(target, messagingHost) || strings.Contains(target, "whatsapp") {
		return target, KindMessaging
	}
	return target, KindLink
}
