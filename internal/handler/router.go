package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attendify/internal/httpmiddleware"
	"attendify/internal/metrics"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	RateLimitPerMin   int
	ReportLimitPerMin int
}

// Router wires routes and middleware.
func Router(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))
	r.Use(securityHeaders())
	r.Use(metrics.GinMiddleware())
	r.Use(httpmiddleware.NewTokenBucket(opts.RateLimitPerMin, opts.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.Healthz)

	api := r.Group("/v1")
	{
		api.GET("/records", h.ListRecords)
		api.POST("/records", h.CreateRecord)
		api.DELETE("/records/:id", h.DeleteRecord)
		api.GET("/draft", h.Draft)

		api.GET("/stats", h.Stats)

		api.GET("/view", h.GetView)
		api.PUT("/view", h.Navigate)

		api.GET("/report", h.Report)
		api.POST("/report",
			httpmiddleware.NewTokenBucket(opts.ReportLimitPerMin, opts.ReportLimitPerMin).GinMiddleware(),
			h.GenerateReport)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
