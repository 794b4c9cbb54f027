package api

import (
	"github.com/contentclicks/dashboard/internal/api/handler"
	"github.com/contentclicks/dashboard/internal/api/middleware"
	"github.com/contentclicks/dashboard/internal/backend"
	"github.com/contentclicks/dashboard/internal/config"
	"github.com/contentclicks/dashboard/internal/logger"
	"github.com/contentclicks/dashboard/internal/service"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	client *backend.Client,
	poller *service.Poller,
	syncService *service.SyncService,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	customerHandler := handler.NewCustomerHandler(client)
	collectHandler := handler.NewCollectHandler(client, poller, cfg.Collect.Days)
	viewHandler := handler.NewViewHandler(syncService)
	insightsHandler := handler.NewInsightsHandler(client, cfg.Collect.HistoryMonths)
	exportHandler := handler.NewExportHandler(client)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Customers
		v1.GET("/customers", customerHandler.ListCustomers)
		v1.POST("/customers", customerHandler.CreateCustomer)
		v1.GET("/customers/:id", customerHandler.GetCustomer)
		v1.PUT("/customers/:id", customerHandler.UpdateCustomer)
		v1.DELETE("/customers/:id", customerHandler.DeleteCustomer)

		// Collection
		v1.POST("/customers/:id/collect", collectHandler.StartCollection)
		v1.GET("/customers/:id/collect/status", collectHandler.CollectionStatus)
		v1.DELETE("/customers/:id/collect", collectHandler.CancelCollection)

		// Dashboard view
		v1.GET("/customers/:id/view", viewHandler.GetView)
		v1.POST("/customers/:id/view/refresh", viewHandler.RefreshView)

		// Insights
		v1.GET("/customers/:id/history", insightsHandler.GetHistory)
		v1.GET("/customers/:id/top-performers", insightsHandler.GetTopPerformers)

		// Export and discovery
		v1.POST("/customers/:id/export/pdf", exportHandler.ExportPDF)
		v1.POST("/discover-pages", exportHandler.DiscoverPages)
	}

	return r
}
