// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ecorecettes/pantry-api/internal/config"
	"github.com/ecorecettes/pantry-api/internal/handlers"
	"github.com/ecorecettes/pantry-api/internal/middleware"
	"github.com/ecorecettes/pantry-api/internal/services"
	"github.com/ecorecettes/pantry-api/internal/utils"
)

func Initialize(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	inventoryService := services.NewInventoryService(db, rdb, cfg)
	recipeService := services.NewRecipeService(db, cfg)
	notificationService := services.NewNotificationService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, cfg)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, authService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", middleware.PrometheusHandler())

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.PUT("/profile", middleware.AuthRequired(), authHandler.UpdateProfile)
		}

		// Inventory routes
		products := v1.Group("/products")
		products.Use(middleware.AuthRequired())
		{
			products.GET("", inventoryHandler.GetProducts)
			products.POST("", inventoryHandler.CreateProduct)
			products.GET("/expiring", inventoryHandler.GetExpiringProducts)
			products.GET("/expired", inventoryHandler.GetExpiredProducts)
			products.GET("/barcode/:code", inventoryHandler.GetProductByBarcode)
			products.GET("/summary", inventoryHandler.GetSummary)
			products.GET("/stats", inventoryHandler.GetStats)
			products.POST("/purge", inventoryHandler.PurgeExpiredProducts)
			products.GET("/:id", inventoryHandler.GetProduct)
			products.PUT("/:id", inventoryHandler.UpdateProduct)
			products.DELETE("/:id", inventoryHandler.DeleteProduct)
			products.GET("/:id/expiration", inventoryHandler.GetProductExpiration)
		}

		// Recipe routes
		recipes := v1.Group("/recipes")
		recipes.Use(middleware.AuthRequired())
		{
			recipes.POST("/generate", middleware.RecipeRateLimit(), recipeHandler.GenerateRecipe)
			recipes.GET("", recipeHandler.GetRecipes)
			recipes.GET("/:id", recipeHandler.GetRecipe)
			recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/expiry-scan", notificationHandler.ScanExpiringProducts)
		}

		// Reference data
		v1.GET("/categories", inventoryHandler.GetCategories)
		v1.GET("/units", inventoryHandler.GetUnits)
	}

	return r
}
