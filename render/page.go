package render

import (
	"github.com/use-agent/offerpage/loader"
	"github.com/use-agent/offerpage/models"
	"github.com/use-agent/offerpage/normalizer"
)

// Default alt text per place an image is shown.
const (
	HeroAlt    = "Offer"
	PreviewAlt = "Preview"
)

// maxFooterImages is how many thumbnails follow the hero image.
const maxFooterImages = 3

// loadingRefreshSeconds is how often a Loading page reloads itself.
const loadingRefreshSeconds = 1

// Page is the template data for one render.
type Page struct {
	Phase    models.Phase
	OfferURL string

	// Error is the message shown in PhaseError.
	Error string

	// Offer and the image fields are set in PhaseReady.
	Offer        models.NormalizedOffer
	HeroImage    *models.Image
	FooterImages []models.Image

	RefreshSeconds int
}

// NewPage builds the template data for an activation snapshot.
func NewPage(snap loader.Snapshot, offerURL string) Page {
	p := Page{Phase: snap.Phase, OfferURL: offerURL}

	switch snap.Phase {
	case models.PhaseError:
		p.Error = snap.Error
		if p.Error == "" {
			p.Error = models.MsgGeneric
		}
	case models.PhaseReady:
		p.Offer = normalizer.Normalize(snap.Payload, offerURL)
		p.HeroImage, p.FooterImages = splitImages(p.Offer.Images)
	default:
		p.Phase = models.PhaseLoading
		p.RefreshSeconds = loadingRefreshSeconds
	}
	return p
}

// splitImages picks the hero image and up to three footer thumbnails,
// filling in the default alt text for each place.
func splitImages(images []models.Image) (*models.Image, []models.Image) {
	footer := []models.Image{}
	if len(images) == 0 {
		return nil, footer
	}

	hero := withAlt(images[0], HeroAlt)
	for i := 1; i < len(images) && len(footer) < maxFooterImages; i++ {
		footer = append(footer, withAlt(images[i], PreviewAlt))
	}
	return &hero, footer
}

func withAlt(img models.Image, fallback string) models.Image {
	if img.Alt == "" {
		img.Alt = fallback
	}
	return img
}

func (p Page) IsLoading() bool { return p.Phase == models.PhaseLoading }
func (p Page) IsError() bool   { return p.Phase == models.PhaseError }
func (p Page) IsReady() bool   { return p.Phase == models.PhaseReady }
