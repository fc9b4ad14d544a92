package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/smartrecipe/backend/config"
	"github.com/smartrecipe/backend/internal/api"
	"github.com/smartrecipe/backend/internal/database"
	"github.com/smartrecipe/backend/internal/logging"
	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/router"
	"github.com/smartrecipe/backend/internal/server"
	"github.com/smartrecipe/backend/internal/service"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Redis is optional: without it refresh tokens are revoked in the database
	// and creation endpoints are not rate limited.
	var tokens service.TokenStore = service.NewDBTokenStore(db)
	var recipeLimiter, postLimiter *middleware.RateLimiter
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(context.Background(), cfg, logger)
		if err != nil {
			logger.Warn("redis unavailable, continuing without it", zap.Error(err))
		} else {
			defer client.Close()
			tokens = service.NewRedisTokenStore(client)
			recipeLimiter = middleware.NewRecipeCreationRateLimiter(client, logger)
			postLimiter = middleware.NewPostCreationRateLimiter(client, logger)
		}
	}

	var storage service.Storage = service.NewLocalStorage(cfg.MediaDir, cfg.MediaURL)
	mediaDir := cfg.MediaDir
	s3cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		logger.Fatal("failed to configure s3", zap.Error(err))
	}
	if s3cfg != nil {
		storage = service.NewS3Storage(s3cfg)
		mediaDir = ""
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, tokens)
	profileService := service.NewProfileService(db)
	ingredientService := service.NewIngredientService(db, nil)
	recipeService := service.NewRecipeService(db)
	communityService := service.NewCommunityService(db)
	shoppingService := service.NewShoppingService(db)
	nutritionService := service.NewNutritionService(db, cfg.Location())
	uploadService := service.NewUploadService(storage)

	engine := router.SetupRouter(router.Options{
		Logger:      logger,
		Metrics:     middleware.NewMetrics(registry),
		CORSOrigins: cfg.CORSOrigins,
		MediaDir:    mediaDir,
		MediaURL:    cfg.MediaURL,
	},
		api.NewSystemHandler(db, registry, logger),
		api.NewUserHandler(authService, profileService),
		api.NewIngredientHandler(ingredientService, authService),
		api.NewRecipeHandler(recipeService, communityService, authService, recipeLimiter),
		api.NewCommunityHandler(communityService, authService, postLimiter),
		api.NewShoppingHandler(shoppingService, authService),
		api.NewNutritionHandler(nutritionService, authService),
		api.NewUploadHandler(uploadService, authService),
	)

	srv := server.New(cfg, engine, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
