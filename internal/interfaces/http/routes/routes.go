// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/freshtrack-backend/internal/config"
	redisdb "github.com/your-org/freshtrack-backend/internal/infrastructure/database/redis"
	"github.com/your-org/freshtrack-backend/internal/interfaces/http/handlers"
	"github.com/your-org/freshtrack-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every route group under the API prefix
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config, logger *logrus.Logger) {
	SetupAuthRoutes(rg, cfg)
	SetupProductRoutes(rg, db, cfg)
	SetupBatchRoutes(rg, db, cfg, logger)
	SetupInventoryRoutes(rg, db, cfg, logger)
	SetupAlertRuleRoutes(rg, db, cfg)
	SetupAlertRoutes(rg, db, cfg)
	SetupActionRoutes(rg, db, cfg, logger)
	SetupExpiryRoutes(rg, db, redisClient, cfg, logger)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	products.Use(middleware.AuthMiddleware(cfg))
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.POST("", productHandler.CreateProduct)

		// Admin maintenance
		admin := products.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/migrate-types", productHandler.MigrateProductTypes)
		}
	}
}

// SetupBatchRoutes sets up batch lifecycle routes
func SetupBatchRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	batchHandler := handlers.NewBatchHandler(db, cfg, logger)

	batches := rg.Group("/batches")
	batches.Use(middleware.AuthMiddleware(cfg))
	{
		batches.POST("", batchHandler.CreateBatch)
		batches.GET("", batchHandler.GetBatches)
		batches.GET("/:id", batchHandler.GetBatch)
		batches.PUT("/:id/quantity", batchHandler.UpdateBatchQuantity)
		batches.GET("/status/:status", batchHandler.GetBatchesByStatus)
	}
}

// SetupInventoryRoutes sets up depletion, resync and summary routes
func SetupInventoryRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	inventoryHandler := handlers.NewInventoryHandler(db, cfg, logger)

	inventory := rg.Group("/inventory")
	inventory.Use(middleware.AuthMiddleware(cfg))
	{
		inventory.POST("/deplete", inventoryHandler.Deplete)
		inventory.GET("/expiry-summary", inventoryHandler.GetExpirySummary)
		inventory.GET("/products/:productId/summary", inventoryHandler.GetProductSummary)

		// Admin maintenance
		admin := inventory.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/products/:productId/resync", inventoryHandler.ResyncProduct)
		}
	}
}

// SetupAlertRuleRoutes sets up alert rule routes. Rule management is an
// admin concern; reading the rule set is not.
func SetupAlertRuleRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	alertRuleHandler := handlers.NewAlertRuleHandler(db, cfg)

	rules := rg.Group("/alert-rules")
	rules.Use(middleware.AuthMiddleware(cfg))
	{
		rules.GET("", alertRuleHandler.GetRules)
		rules.GET("/default", alertRuleHandler.GetDefaultRule)
		rules.GET("/:id", alertRuleHandler.GetRule)

		admin := rules.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("", alertRuleHandler.CreateRule)
			admin.PUT("/:id", alertRuleHandler.UpdateRule)
			admin.DELETE("/:id", alertRuleHandler.DeleteRule)
		}
	}
}

// SetupAlertRoutes sets up alert routes
func SetupAlertRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	alertHandler := handlers.NewAlertHandler(db, cfg)

	alerts := rg.Group("/alerts")
	alerts.Use(middleware.AuthMiddleware(cfg))
	{
		alerts.GET("", alertHandler.GetAlerts)
		alerts.GET("/open", alertHandler.GetOpenAlerts)
		alerts.GET("/:id", alertHandler.GetAlert)
		alerts.GET("/batch/:batchId", alertHandler.GetAlertsByBatch)
		alerts.POST("/:id/acknowledge", alertHandler.AcknowledgeAlert)
	}
}

// SetupActionRoutes sets up manual-action routes
func SetupActionRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	actionHandler := handlers.NewActionHandler(db, cfg, logger)

	actions := rg.Group("/actions")
	actions.Use(middleware.AuthMiddleware(cfg))
	{
		actions.POST("", actionHandler.LogAction)
		actions.GET("", actionHandler.GetActions)
		actions.GET("/:id", actionHandler.GetAction)
		actions.GET("/batch/:batchId", actionHandler.GetActionsByBatch)
	}
}

// SetupExpiryRoutes sets up the sweep trigger route
func SetupExpiryRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config, logger *logrus.Logger) {
	expiryHandler := handlers.NewExpiryHandler(db, cfg, logger, redisClient)

	expiry := rg.Group("/expiry")
	expiry.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		expiry.POST("/sweep", expiryHandler.TriggerSweep)
	}
}
