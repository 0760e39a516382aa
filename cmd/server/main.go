// Package main is the entry point for the Nomur distribution API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"nomur/internal/config"
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
	v1 "nomur/internal/infrastructure/http/v1"
	"nomur/internal/infrastructure/storage/postgres"
	"nomur/internal/infrastructure/storage/postgres/agent_repo"
	"nomur/internal/infrastructure/storage/postgres/catalog_repo"
	"nomur/internal/infrastructure/storage/postgres/ledger_repo"
	"nomur/internal/infrastructure/storage/postgres/order_repo"
	"nomur/internal/infrastructure/storage/postgres/promo_repo"
	"nomur/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting nomur server")

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	trail, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit trail", "error", err)
	}

	// --- Repositories ---
	agentRepo := agent_repo.NewAgentRepo(txManager)
	adminRepo := agent_repo.NewAdminRepo(txManager)
	supplementRepo := agent_repo.NewSupplementRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	groupRepo := catalog_repo.NewGroupRepo(txManager)
	catalog := catalog_repo.NewCatalog(productRepo, groupRepo)
	uploadRepo := catalog_repo.NewUploadRepo(txManager)
	driverRepo := catalog_repo.NewDriverRepo(txManager)
	truckTypeRepo := catalog_repo.NewTruckTypeRepo(txManager)
	orderRepo := order_repo.NewOrderRepo(txManager)
	giftRecordRepo := order_repo.NewGiftRecordRepo(txManager)
	transactionRepo := ledger_repo.NewTransactionRepo(txManager)
	accountRepo := ledger_repo.NewAccountRepo(txManager)
	promotionRepo := promo_repo.NewPromotionRepo(txManager)

	// --- Services ---
	productService := product.NewService(productRepo)
	groupService := productgroup.NewService(groupRepo, productRepo)
	agentService := agent.NewService(agentRepo, txManager)
	adminService := admin.NewService(adminRepo, agentRepo)
	supplementService := supplement.NewService(supplementRepo, agentRepo)
	orderService := order.NewService(orderRepo, agentRepo, transactionRepo, trail, txManager)
	giftService := gift.NewService(giftRecordRepo, orderRepo, agentRepo, catalog, trail, txManager)
	ledgerService := ledger.NewService(transactionRepo, agentRepo, uploadRepo, trail, txManager)
	promotionService := promotion.NewService(promotionRepo, orderRepo, groupRepo, agentRepo, txManager)
	paymentService := payment.NewService(accountRepo, transactionRepo, txManager)
	statsService := stats.NewService(orderRepo, transactionRepo, catalog, agentRepo, supplementRepo)
	fleetService := fleet.NewService(driverRepo, truckTypeRepo, txManager)
	uploadService := upload.NewService(uploadRepo)

	var idempotency *postgres.IdempotencyStore
	if cfg.IdempotencyEnabled {
		idempotency = postgres.NewIdempotencyStore(txManager, cfg.IdempotencyTTL)
	}

	router := v1.NewRouter(v1.RouterConfig{
		Pool:        pool.Unwrap(),
		Logger:      log,
		Idempotency: idempotency,
		Products:    productService,
		Groups:      groupService,
		Agents:      agentService,
		Orders:      orderService,
		Gifts:       giftService,
		Ledger:      ledgerService,
		Promotions:  promotionService,
		Payments:    paymentService,
		Admins:      adminService,
		Stats:       statsService,
		Supplements: supplementService,
		Fleet:       fleetService,
		Uploads:     uploadService,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
