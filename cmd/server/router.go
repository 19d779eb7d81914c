package main

import (
	"shortlink/internal/config"
	"shortlink/internal/handler"
	"shortlink/internal/repository"
	"shortlink/internal/service"
	"shortlink/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type routerDeps struct {
	store         repository.KVStore
	links         service.LinkServiceInterface
	stats         service.StatsServiceInterface
	dispatcher    service.ClickDispatcherInterface
	createLimiter service.RateLimiterInterface
}

func newRouter(cfg *config.Config, deps routerDeps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Identity(middleware.IdentityOptions{
		SessionCookie: cfg.Server.SessionCookie,
		AdminHeader:   cfg.Server.AdminHeader,
		CountryHeader: cfg.Server.CountryHeader,
		RegionHeader:  cfg.Server.RegionHeader,
	}))
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(corsMiddleware())

	linkHandler := handler.NewLinkHandler(deps.links, deps.createLimiter, cfg.Server.BaseURL)
	statsHandler := handler.NewStatsHandler(deps.stats)
	redirectHandler := handler.NewRedirectHandler(deps.links, deps.dispatcher)
	healthHandler := handler.NewHealthHandler(deps.store)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/links", linkHandler.Create)
		v1.GET("/links", linkHandler.List)
		v1.GET("/links/:slug", linkHandler.Get)
		v1.PATCH("/links/:slug", linkHandler.Update)
		v1.DELETE("/links/:slug", linkHandler.Delete)
		v1.GET("/links/:slug/stats", statsHandler.Report)
		v1.GET("/links/:slug/clicks", statsHandler.Clicks)
		v1.GET("/admin/links", linkHandler.ListAll)
	}

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/:slug", redirectHandler.Redirect)

	return router
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
