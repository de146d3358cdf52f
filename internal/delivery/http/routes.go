package http

import (
	"github.com/gin-gonic/gin"
	"github.com/recipehelper/backend/config"
	"github.com/recipehelper/backend/internal/observability"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, metrics *observability.Metrics, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check and scrape endpoints
	router.GET("/health", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.GET("/diets", handler.ListDiets)
		v1.GET("/substitutions", handler.Substitute)
		v1.GET("/saved", handler.ListSaved)

		recipes := v1.Group("/recipes")
		{
			recipes.POST("/suggest", handler.SuggestRecipes)
			recipes.GET("/lookup", handler.LookupRecipe)
			recipes.GET("/card", handler.RecipeCard)
			recipes.POST("/plan", handler.PlanRecipe)
			recipes.POST("/ask", handler.AskAssistant)
		}
	}

	return router
}
