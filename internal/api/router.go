package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"mintid-backend/config"
	"mintid-backend/internal/mw"
	"mintid-backend/internal/storage"
	"mintid-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, engine *storage.Engine, webpushOptions *webpush.Options, srv config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, engine, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(srv.RateLimitPerSec), srv.RateLimitBurst)

	cacheTTL := time.Duration(srv.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		orgs := api.Group("/orgs/:org_id")
		{
			orgs.GET("/shifts", handler.ListShifts)
			orgs.POST("/shifts", handler.CreateShift)
			orgs.PUT("/shifts/:id", handler.UpdateShift)
			orgs.DELETE("/shifts/:id", handler.DeleteShift)

			orgs.GET("/tasks", handler.ListTasks)
			orgs.POST("/tasks", handler.CreateTask)
			orgs.PUT("/tasks/:id", handler.UpdateTask)
			orgs.DELETE("/tasks/:id", handler.DeleteTask)

			orgs.GET("/reports/summary", GetWorkSummary(s))
			orgs.GET("/reports/export", ExportReport(s))

			orgs.GET("/storage/quota", caching, handler.GetStorageQuota)
			orgs.POST("/storage/upload", handler.UploadFile)
			orgs.GET("/storage/recommendations", handler.GetRecommendations)
			orgs.POST("/storage/recommendations/implement", handler.ImplementRecommendations)
		}

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
