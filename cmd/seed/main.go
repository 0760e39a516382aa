// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"nomur/internal/core/apperror"
	"nomur/internal/domain/admin"
	"nomur/internal/domain/agent"
	"nomur/internal/domain/product"
	"nomur/internal/infrastructure/storage/postgres"
	"nomur/internal/infrastructure/storage/postgres/agent_repo"
	"nomur/internal/infrastructure/storage/postgres/catalog_repo"
	"nomur/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	agentRepo := agent_repo.NewAgentRepo(txManager)
	adminRepo := agent_repo.NewAdminRepo(txManager)
	admins := admin.NewService(adminRepo, agentRepo)

	if err := seedSuperAdmin(ctx, admins, log); err != nil {
		log.Fatalw("failed to seed super admin", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		products := product.NewService(catalog_repo.NewProductRepo(txManager))
		agents := agent.NewService(agentRepo, txManager)
		if err := seedDemoData(ctx, products, agents, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding complete")
}

// seedSuperAdmin registers the bootstrap super admin from SEED_ADMIN_PHONE.
// An already registered phone is not an error.
func seedSuperAdmin(ctx context.Context, admins *admin.Service, log *logger.Logger) error {
	phone := os.Getenv("SEED_ADMIN_PHONE")
	if phone == "" {
		log.Info("SEED_ADMIN_PHONE not set, skipping super admin")
		return nil
	}

	created, err := admins.Create(ctx, &admin.Admin{
		Name:  getEnv("SEED_ADMIN_NAME", "Administrator"),
		Phone: phone,
		Role:  admin.RoleSuperAdmin,
	})
	if err != nil {
		if apperror.IsDuplicate(err) {
			log.Infow("super admin already exists", "phone", phone)
			return nil
		}
		return err
	}

	log.Infow("super admin created", "id", created.ID, "phone", created.Phone)
	return nil
}

func seedDemoData(ctx context.Context, products *product.Service, agents *agent.Service, log *logger.Logger) error {
	demoProducts := []*product.Product{
		{Name: "Premium Feed 25kg", Price: decimal.NewFromInt(180), Weight: decimal.NewFromInt(25)},
		{Name: "Standard Feed 25kg", Price: decimal.NewFromInt(140), Weight: decimal.NewFromInt(25)},
		{Name: "Starter Feed 10kg", Price: decimal.NewFromInt(95), Weight: decimal.NewFromInt(10)},
	}
	for _, p := range demoProducts {
		created, err := products.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		log.Infow("product created", "id", created.ID, "name", created.Name)
	}

	demoAgents := []*agent.Agent{
		{Name: "Eastside Distribution", Phone1: "13800000001"},
		{Name: "Northgate Trading", Phone1: "13800000002"},
	}
	for _, a := range demoAgents {
		created, err := agents.Create(ctx, a)
		if err != nil {
			return fmt.Errorf("seed agent %q: %w", a.Name, err)
		}
		log.Infow("agent created", "id", created.ID, "name", created.Name)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
