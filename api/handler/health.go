package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/offerpage/loader"
	"github.com/use-agent/offerpage/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Reports "degraded" once the offer fetch has failed; the page still
// serves its error view with a link to the original offer.
func Health(act *loader.Activation, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		phase := act.Snapshot().Phase

		status := "healthy"
		if phase == models.PhaseError {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Phase:   phase,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: Version,
		})
	}
}
