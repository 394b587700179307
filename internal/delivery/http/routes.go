package http

import (
	"github.com/dnsby/storefront/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.GET("", handler.GetCatalog)
			catalog.POST("/refresh", handler.RefreshCatalog)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", handler.GetCart)
			cart.POST("", handler.AddToCart)
			cart.DELETE("/:id", handler.RemoveFromCart)
		}

		v1.POST("/orders", handler.CreateOrder)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", handler.Login)
			auth.POST("/register", handler.Register)
			auth.POST("/logout", handler.Logout)
			auth.GET("/me", handler.Me)
		}
	}

	return router
}
