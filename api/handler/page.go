package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/use-agent/offerpage/loader"
	"github.com/use-agent/offerpage/render"
)

// Page returns a handler for GET /, the landing page.
//
// It renders whatever phase the activation is in; it never triggers a
// fetch of its own.
func Page(act *loader.Activation) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := render.NewPage(act.Snapshot(), act.OfferURL())
		if page.IsLoading() {
			c.Header("Cache-Control", "no-store")
		}
		c.HTML(render.StatusFor(page.Phase), render.PageTemplate, page)
	}
}
