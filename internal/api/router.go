package api

import (
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"tagcly-telemetry-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(h.cfg.Server.RateLimitPerSec), h.cfg.Server.RateLimitBurst)

	cacheTTL := h.cfg.Server.CacheTTL()
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Ingestion
		api.POST("/sensors", h.PostSensorReading)

		// Queries
		api.GET("/pets/:petId/readings", h.GetReadings)
		api.GET("/pets/:petId/activity", caching, h.GetActivityTrends)
		api.GET("/pets/:petId/sleep", caching, h.GetSleepTrends)

		// Lost-pet alert subscriptions
		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		// Development-only tooling
		api.POST("/dev/generate-data", h.GenerateData)
	}

	return r
}
