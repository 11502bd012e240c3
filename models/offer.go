package models

// RawOfferPayload is the scrape backend's view of the offer page.
// Every field is optional; an empty string or empty slice means absent.
type RawOfferPayload struct {
	Title       string   `json:"title,omitempty"`
	Headings    []string `json:"headings,omitempty"`
	Description string   `json:"description,omitempty"`
	Paragraphs  []string `json:"paragraphs,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
	Images      []Image  `json:"images,omitempty"`
}

// Image represents an image element extracted from the offer page.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// NormalizedOffer holds the display fields derived from a RawOfferPayload.
// All slices are non-nil and bounded.
type NormalizedOffer struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	HeroBullets   []string `json:"hero_bullets"`
	DetailBullets []string `json:"detail_bullets"`
	Paragraphs    []string `json:"paragraphs"`
	Images        []Image  `json:"images"`
}
