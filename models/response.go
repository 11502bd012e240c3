package models

// OfferResponse is the response for GET /api/v1/offer.
type OfferResponse struct {
	// Success is false only when the phase is "error".
	Success bool `json:"success"`

	Phase Phase `json:"phase"`

	// OfferURL is the original offer page, always present so clients
	// can link to it whatever the phase.
	OfferURL string `json:"offer_url"`

	// Offer is populated only in the "ready" phase.
	Offer *NormalizedOffer `json:"offer,omitempty"`

	// Error is populated only in the "error" phase.
	Error *ErrorDetail `json:"error,omitempty"`
}

// ScrapeOfferResponse wraps errors from GET /api/scrape-offer. Successful
// responses are the bare RawOfferPayload, as the loader expects.
type ScrapeOfferResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"` // "healthy" or "degraded"
	Phase   Phase  `json:"phase"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
