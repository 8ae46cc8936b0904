package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tejasrajegowda/BudgetOps-AI/pkg/config"
	"github.com/tejasrajegowda/BudgetOps-AI/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.Development, logger.LogLevel(cfg.LogLevel)); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Lightweight migrate command: `budgetops migrate` reconciles the schema,
	// reinstalls the updated_at trigger, seeds the placeholder user and
	// exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := initDB(cfg); err != nil {
			logger.Get().Fatal("migrate", zap.Error(err))
		}
		fmt.Println("migration and seeding completed")
		return
	}

	if err := initDB(cfg); err != nil {
		logger.Get().Fatal("init database", zap.Error(err))
	}

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	setupRoutes(r)

	logger.Get().Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Get().Fatal("server", zap.Error(err))
	}
}
