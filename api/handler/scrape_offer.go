package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/offerpage/models"
	"github.com/use-agent/offerpage/scrapeoffer"
)

// ScrapeOffer returns a handler for GET /api/scrape-offer?url=<abs url>.
//
// On success the body is the bare RawOfferPayload, which is what the
// loader decodes. Failures use the {success, error} envelope.
func ScrapeOffer(svc *scrapeoffer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := svc.Scrape(c.Request.Context(), c.Query("url"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payload)
	}
}

// respondError maps an OfferError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error) {
	var offerErr *models.OfferError
	if !errors.As(err, &offerErr) {
		offerErr = models.NewOfferError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(offerErr), models.ScrapeOfferResponse{
		Success: false,
		Error:   offerErr.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.OfferError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeForbiddenTarget:
		return http.StatusForbidden // 403
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeTransport, models.ErrCodeHTTP, models.ErrCodeParse:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
