// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"nomur/internal/domain/admin"
	"nomur/internal/domain/agent"
	"nomur/internal/domain/fleet"
	"nomur/internal/domain/gift"
	"nomur/internal/domain/ledger"
	"nomur/internal/domain/order"
	"nomur/internal/domain/payment"
	"nomur/internal/domain/product"
	"nomur/internal/domain/productgroup"
	"nomur/internal/domain/promotion"
	"nomur/internal/domain/stats"
	"nomur/internal/domain/supplement"
	"nomur/internal/domain/upload"
	"nomur/internal/infrastructure/http/v1/handlers"
	"nomur/internal/infrastructure/http/v1/middleware"
	"nomur/internal/infrastructure/storage/postgres"
	"nomur/pkg/logger"
)

// RouterConfig holds the assembled services the router exposes.
type RouterConfig struct {
	// Pool is the database connection (health checks only).
	Pool *pgxpool.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// Idempotency enables duplicate-request protection on money
	// mutations when non-nil.
	Idempotency *postgres.IdempotencyStore

	Products    *product.Service
	Groups      *productgroup.Service
	Agents      *agent.Service
	Orders      *order.Service
	Gifts       *gift.Service
	Ledger      *ledger.Service
	Promotions  *promotion.Service
	Payments    *payment.Service
	Admins      *admin.Service
	Stats       *stats.Service
	Supplements *supplement.Service
	Fleet       *fleet.Service
	Uploads     *upload.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	router.GET("/health", healthHandler.Check)
	router.GET("/api/health", healthHandler.Check)

	base := handlers.NewBaseHandler()

	// Mutations on settled money require a named admin; the check reads
	// the admin-id and admin-role headers.
	privileged := middleware.RequireAdmin(cfg.Admins)

	api := router.Group("/api")
	{
		adminHandler := handlers.NewAdminHandler(base, cfg.Admins)
		api.POST("/auth/verify", adminHandler.Verify)

		admins := api.Group("/admins")
		{
			admins.GET("", adminHandler.List)
			admins.POST("", adminHandler.Create)
			admins.DELETE("/:id", adminHandler.Delete)
		}

		productHandler := handlers.NewProductHandler(base, cfg.Products)
		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("", productHandler.Create)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}

		groupHandler := handlers.NewGroupHandler(base, cfg.Groups)
		groups := api.Group("/product-groups")
		{
			groups.GET("", groupHandler.List)
			groups.POST("", groupHandler.Create)
			groups.PUT("/:id", groupHandler.Update)
			groups.DELETE("/:id", groupHandler.Delete)
		}

		agentHandler := handlers.NewAgentHandler(base, cfg.Agents, cfg.Promotions, cfg.Gifts, cfg.Stats, cfg.Supplements)
		agents := api.Group("/agents")
		{
			agents.GET("", agentHandler.List)
			agents.POST("", agentHandler.Create)
			agents.PUT("/sort", agentHandler.Sort)
			agents.GET("/:id", agentHandler.Get)
			agents.PUT("/:id", agentHandler.Update)
			agents.DELETE("/:id", agentHandler.Delete)
			agents.GET("/:id/promotions/progress", agentHandler.PromotionProgress)
			agents.GET("/:id/gifts", agentHandler.GiftSummary)
			agents.PUT("/:id/gifts", agentHandler.RedistributeGifts)
			agents.GET("/:id/statistics", agentHandler.Statistics)
			agents.GET("/:id/supplement-sales", agentHandler.ListSupplementSales)
			agents.POST("/:id/supplement-sales", agentHandler.CreateSupplementSale)
		}
		api.DELETE("/supplement-sales/:id", agentHandler.DeleteSupplementSale)

		statsHandler := handlers.NewStatsHandler(base, cfg.Stats)
		api.GET("/statistics", statsHandler.Global)

		orderHandler := handlers.NewOrderHandler(base, cfg.Orders, cfg.Gifts)
		orders := api.Group("/orders")
		{
			orders.GET("", orderHandler.List)
			orders.POST("", orderHandler.Create)
			orders.GET("/:id", orderHandler.Get)
			orders.PUT("/:id", privileged, orderHandler.Update)
			orders.DELETE("/:id", privileged, orderHandler.Delete)
			orders.PUT("/:id/status", orderHandler.UpdateStatus)
			orders.PUT("/:id/gifts", middleware.OptionalAdmin(cfg.Admins), orderHandler.UpdateGifts)
			orders.GET("/:id/gift-delivery-records", orderHandler.ListDeliveryRecords)
			orders.DELETE("/:id/gift-delivery-records/:recordId", privileged, orderHandler.DeleteDeliveryRecord)
		}

		transactionHandler := handlers.NewTransactionHandler(base, cfg.Ledger)
		transactions := api.Group("/transactions")
		if cfg.Idempotency != nil {
			transactions.Use(middleware.Idempotency(cfg.Idempotency))
		}
		{
			transactions.GET("", transactionHandler.List)
			transactions.POST("/recharge", transactionHandler.Recharge)
			transactions.POST("/deduct", transactionHandler.Deduct)
			transactions.POST("/transfer", transactionHandler.Transfer)
			transactions.PUT("/:id", privileged, transactionHandler.Update)
			transactions.DELETE("/:id", privileged, transactionHandler.Delete)
		}

		promotionHandler := handlers.NewPromotionHandler(base, cfg.Promotions)
		promotions := api.Group("/promotions")
		{
			promotions.GET("", promotionHandler.List)
			promotions.POST("", promotionHandler.Create)
			promotions.PUT("/:id", promotionHandler.Update)
			promotions.DELETE("/:id", promotionHandler.Delete)
		}

		paymentHandler := handlers.NewPaymentHandler(base, cfg.Payments)
		paymentAccounts := api.Group("/payment-accounts")
		if cfg.Idempotency != nil {
			paymentAccounts.Use(middleware.Idempotency(cfg.Idempotency))
		}
		{
			paymentAccounts.GET("", paymentHandler.List)
			paymentAccounts.POST("", paymentHandler.Create)
			paymentAccounts.PUT("/:id", paymentHandler.Update)
			paymentAccounts.DELETE("/:id", paymentHandler.Deactivate)
			paymentAccounts.GET("/:id/balance-details", paymentHandler.BalanceDetails)
			paymentAccounts.GET("/:id/transactions", paymentHandler.Recharges)
			paymentAccounts.POST("/:id/deduct", paymentHandler.Deduct)
			paymentAccounts.PUT("/:id/balance", paymentHandler.SetOpeningBalance)
		}

		fleetHandler := handlers.NewFleetHandler(base, cfg.Fleet)
		api.GET("/drivers", fleetHandler.ListDrivers)
		api.POST("/drivers", fleetHandler.CreateDriver)
		truckTypes := api.Group("/truck-types")
		{
			truckTypes.GET("", fleetHandler.ListTruckTypes)
			truckTypes.POST("", fleetHandler.CreateTruckType)
			truckTypes.PUT("/:id", fleetHandler.UpdateTruckType)
			truckTypes.DELETE("/:id", fleetHandler.DeleteTruckType)
		}

		uploadHandler := handlers.NewUploadHandler(base, cfg.Uploads)
		uploads := api.Group("/upload")
		{
			uploads.POST("/check-duplicate", uploadHandler.CheckDuplicate)
			uploads.POST("/record", uploadHandler.Register)
		}
	}

	return router
}
