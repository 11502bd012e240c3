package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/offerpage/loader"
	"github.com/use-agent/offerpage/models"
	"github.com/use-agent/offerpage/normalizer"
)

// Offer returns a handler for GET /api/v1/offer: the normalized view-model
// as JSON, tagged with the current phase.
func Offer(act *loader.Activation) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := act.Snapshot()
		resp := models.OfferResponse{
			Success:  snap.Phase != models.PhaseError,
			Phase:    snap.Phase,
			OfferURL: act.OfferURL(),
		}

		switch snap.Phase {
		case models.PhaseReady:
			offer := normalizer.Normalize(snap.Payload, act.OfferURL())
			resp.Offer = &offer
		case models.PhaseError:
			resp.Error = &models.ErrorDetail{
				Code:    snap.Code,
				Message: snap.Error,
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}
