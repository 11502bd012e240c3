// Package normalizer derives the landing page's display fields from a
// loosely-shaped scrape payload.
//
// Normalize is pure and total: the same payload and base URL always yield
// the same NormalizedOffer, and missing or odd fields fall back to fixed
// defaults instead of failing.
package normalizer

import (
	"github.com/use-agent/offerpage/models"
)

// Fallback copy used when the payload has nothing better.
const (
	FallbackTitle        = "Exclusive Offer"
	FallbackDescription  = "Discover an exclusive learning opportunity tailored for you."
	FallbackDetailBullet = "Course modules, live sessions, hands-on labs, community support, and certification guidance."
)

// Caps on the derived sequences.
const (
	MaxHeroBullets   = 3
	MaxDetailBullets = 6
	MaxParagraphs    = 3
)

// Normalize turns raw into display fields. raw may be nil. Relative image
// sources are resolved against baseURL, the original offer page.
func Normalize(raw *models.RawOfferPayload, baseURL string) models.NormalizedOffer {
	if raw == nil {
		raw = &models.RawOfferPayload{}
	}

	return models.NormalizedOffer{
		Title:         firstNonEmpty(first(raw.Headings), raw.Title, FallbackTitle),
		Description:   firstNonEmpty(raw.Description, first(raw.Paragraphs), FallbackDescription),
		HeroBullets:   window(raw.Bullets, 0, MaxHeroBullets),
		DetailBullets: detailBullets(raw.Bullets),
		Paragraphs:    window(raw.Paragraphs, 0, MaxParagraphs),
		Images:        ResolveImages(raw.Images, baseURL),
	}
}

// detailBullets returns bullets[3..9), or the single fallback sentence
// when the payload carried no bullets at all. A payload with 1-3 bullets
// yields an empty detail list: those bullets are shown as hero cards.
func detailBullets(bullets []string) []string {
	if len(bullets) == 0 {
		return []string{FallbackDetailBullet}
	}
	return window(bullets, MaxHeroBullets, MaxHeroBullets+MaxDetailBullets)
}

// window copies s[lo:hi] clamped to the slice bounds. The result is never nil.
func window(s []string, lo, hi int) []string {
	if hi > len(s) {
		hi = len(s)
	}
	if lo >= hi {
		return []string{}
	}
	out := make([]string, hi-lo)
	copy(out, s[lo:hi])
	return out
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// firstNonEmpty returns the first candidate that is not the empty string.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
