package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/smartrecipe/backend/config"
	"github.com/smartrecipe/backend/internal/database"
	"github.com/smartrecipe/backend/internal/logging"
)

func main() {
	seed := flag.Bool("seed", false, "Seed the ingredient catalog after migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	logger.Info("all migrations applied successfully")

	if *seed {
		if _, err := database.SeedIngredients(db, logger); err != nil {
			logger.Fatal("failed to seed ingredients", zap.Error(err))
		}
	}
}
