package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/offerpage/api/handler"
	"github.com/use-agent/offerpage/api/middleware"
	"github.com/use-agent/offerpage/config"
	"github.com/use-agent/offerpage/loader"
	"github.com/use-agent/offerpage/render"
	"github.com/use-agent/offerpage/scrapeoffer"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     RateLimit
//
// The landing page and health endpoint are outside the rate limiter. The
// scrape-offer route is mounted only when svc is non-nil.
func NewRouter(act *loader.Activation, rd *render.Renderer, svc *scrapeoffer.Service, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.SetHTMLTemplate(rd.Template())

	// Landing page.
	r.GET("/", handler.Page(act))

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(act, startTime))

	limited := r.Group("/api")
	limited.Use(middleware.RateLimit(cfg.RateLimit))
	limited.GET("/v1/offer", handler.Offer(act))

	if svc != nil {
		limited.GET("/scrape-offer", handler.ScrapeOffer(svc))
	}

	return r
}
