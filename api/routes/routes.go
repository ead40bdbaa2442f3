package routes

import (
	"net/http"

	"github.com/ArowuTest/loyalty-admin-backend/internal/handlers"
	"github.com/ArowuTest/loyalty-admin-backend/internal/metrics"
	"github.com/ArowuTest/loyalty-admin-backend/internal/middleware"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies holds everything SetupRouter wires into routes
type HandlerDependencies struct {
	AuthHandler           *handlers.AuthHandler
	CampaignHandler       *handlers.CampaignHandler
	CatalogHandler        *handlers.CatalogHandler
	AudienceHandler       *handlers.AudienceHandler
	CustomerHandler       *handlers.CustomerHandler
	RewardHandler         *handlers.RewardHandler
	NotificationHandler   *handlers.NotificationHandler
	SystemSettingsHandler *handlers.SystemSettingsHandler
	HealthHandler         *handlers.HealthHandler
	Tokens                *jwt.TokenService
	Metrics               *metrics.Metrics
	MetricsHandler        http.Handler
	AllowedOrigins        []string
}

// SetupRouter sets up the router
func SetupRouter(deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	if deps.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(deps.Metrics))
	}
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", deps.HealthHandler.Health)

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	{
		// Catalog and directory routes
		protected.GET("/products", deps.CatalogHandler.GetProducts)
		protected.POST("/products", deps.CatalogHandler.CreateProduct)
		protected.GET("/categories", deps.CatalogHandler.GetCategories)
		protected.GET("/segments", deps.CatalogHandler.GetSegments)
		protected.POST("/segments", deps.CatalogHandler.CreateSegment)
		protected.GET("/tiers", deps.CatalogHandler.GetTiers)
		protected.POST("/tiers", deps.CatalogHandler.CreateTier)
		protected.POST("/directory/recount", deps.CatalogHandler.RecountMembers)

		// Campaign routes
		campaigns := protected.Group("/campaigns")
		{
			campaigns.GET("/form-options", deps.CampaignHandler.FormOptions)
			campaigns.POST("/validate", deps.CampaignHandler.Validate)
			campaigns.GET("", deps.CampaignHandler.GetCampaigns)
			campaigns.POST("", deps.CampaignHandler.CreateCampaign)
			campaigns.GET("/:id", deps.CampaignHandler.GetCampaign)
			campaigns.GET("/:id/edit", deps.CampaignHandler.GetCampaignForEdit)
			campaigns.PUT("/:id", deps.CampaignHandler.UpdateCampaign)
			campaigns.PATCH("/:id/status", deps.CampaignHandler.SetCampaignStatus)
			campaigns.POST("/:id/retire", deps.CampaignHandler.RetireCampaign)
			campaigns.DELETE("/:id", deps.CampaignHandler.DeleteCampaign)
			campaigns.POST("/:id/evaluate", deps.CampaignHandler.EvaluateCampaign)
		}

		// Audience routes
		audience := protected.Group("/audience")
		{
			audience.POST("/estimate", deps.AudienceHandler.Estimate)
			audience.POST("/resolve", deps.AudienceHandler.Resolve)
		}

		// Customer routes
		customers := protected.Group("/customers")
		{
			customers.GET("", deps.CustomerHandler.GetCustomers)
			customers.POST("", deps.CustomerHandler.CreateCustomer)
			customers.GET("/:id", deps.CustomerHandler.GetCustomer)
			customers.POST("/:id/redeem", deps.CustomerHandler.RedeemReward)
			customers.GET("/:id/points", deps.CustomerHandler.GetPointHistory)
		}

		// Rewards and transactions
		protected.GET("/rewards", deps.RewardHandler.GetRewards)
		protected.POST("/rewards", deps.RewardHandler.CreateReward)
		protected.POST("/transactions", deps.RewardHandler.RecordTransaction)
		protected.GET("/transactions/customer/:id", deps.RewardHandler.GetCustomerTransactions)

		// Notification routes
		notifications := protected.Group("/notifications")
		{
			notifications.POST("/dispatch", deps.NotificationHandler.Dispatch)
			notifications.GET("", deps.NotificationHandler.GetNotifications)
			notifications.GET("/summary", deps.NotificationHandler.GetSummary)
			notifications.GET("/:id", deps.NotificationHandler.GetNotificationByID)
		}

		// Settings routes
		settings := protected.Group("/settings")
		{
			settings.GET("", deps.SystemSettingsHandler.GetSettings)
			settings.PUT("/push-gateway", deps.SystemSettingsHandler.UpdatePushGateway)
		}
	}

	return router
}
