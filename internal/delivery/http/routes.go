package http

import (
	"github.com/airecipes/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.NoRoute(NotFoundHandler)

	// Operational endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/health/ready", handler.ReadinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	if cfg.RateLimit.PerIP > 0 {
		api.Use(NewIPRateLimiter(cfg.RateLimit.PerIP).Middleware())
	}
	{
		products := api.Group("/products")
		{
			products.GET("/search", handler.SearchProducts)
			products.GET("/:barcode", handler.GetProduct)
			products.GET("/:barcode/analyze", handler.AnalyzeProduct)
		}

		profile := api.Group("/profile")
		{
			profile.GET("", handler.GetProfile)
			profile.POST("", handler.CreateProfile)
			profile.PUT("", handler.UpdateProfile)
			profile.DELETE("", handler.DeleteProfile)
		}
	}

	return router
}
