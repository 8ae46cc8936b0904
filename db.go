package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tejasrajegowda/BudgetOps-AI/pkg/config"
	"github.com/tejasrajegowda/BudgetOps-AI/pkg/logger"
	"github.com/tejasrajegowda/BudgetOps-AI/pkg/store"
)

var (
	db *gorm.DB
	st *store.Store
)

// initDB connects to Postgres, reconciles the schema when DB_AUTO_MIGRATE
// allows it, and seeds the placeholder user when SEED_USER_EMAIL is set.
// TranslateError turns engine constraint violations into gorm sentinel
// errors, which the store maps onto its own.
func initDB(cfg *config.Config) error {
	var err error
	db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	st = store.New(db)

	if cfg.AutoMigrate {
		if err := store.Migrate(db); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
		logger.Get().Info("schema migrated",
			zap.Strings("tables", []string{"users", "transactions", "budgets", "daily_insights"}))
	}
	return seedDB(cfg)
}

// seedDB inserts the placeholder account ingestion hangs rows off in
// single-user deployments. ON CONFLICT (email) DO NOTHING makes it safe to
// run on every start.
func seedDB(cfg *config.Config) error {
	if cfg.SeedUserEmail == "" {
		return nil
	}
	created, err := st.SeedUser(context.Background(), cfg.SeedUserEmail)
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	if created {
		logger.Get().Info("seeded placeholder user", zap.String("email", cfg.SeedUserEmail))
	}
	return nil
}
