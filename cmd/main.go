package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/habiebr/fuel-score-backend/internal/cache"
	"github.com/habiebr/fuel-score-backend/internal/clients/ai"
	"github.com/habiebr/fuel-score-backend/internal/clients/googlefit"
	rediscli "github.com/habiebr/fuel-score-backend/internal/clients/redis"
	"github.com/habiebr/fuel-score-backend/internal/config"
	"github.com/habiebr/fuel-score-backend/internal/db"
	"github.com/habiebr/fuel-score-backend/internal/handlers"
	"github.com/habiebr/fuel-score-backend/internal/middleware"
	"github.com/habiebr/fuel-score-backend/internal/observability"
	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/server"
	"github.com/habiebr/fuel-score-backend/internal/services"
)

func main() {
	cfg := config.Load()

	// Logger
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdown := observability.Init(context.Background(), log, observability.Config{
		ServiceName: "fuel-score-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Error("Invalid APP_TIMEZONE", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	weights, err := config.LoadWeights(cfg.WeightsPath)
	if err != nil {
		log.Error("Could not load scoring weights", "path", cfg.WeightsPath, "error", err)
		os.Exit(1)
	}

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	gdb := dbService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(gdb, log)
	profileRepo := repos.NewProfileRepo(gdb, log)
	mealPlanRepo := repos.NewMealPlanRepo(gdb, log)
	foodLogRepo := repos.NewFoodLogRepo(gdb, log)
	trainingRepo := repos.NewTrainingActivityRepo(gdb, log)
	fitRepo := repos.NewGoogleFitRepo(gdb, log)
	fitTokenRepo := repos.NewGoogleFitTokenRepo(gdb, log)
	scoreRepo := repos.NewNutritionScoreRepo(gdb, log)
	syncTokenRepo := repos.NewSyncTokenRepo(gdb, log)

	// Widget cache: Redis when configured, in-process otherwise.
	var cacheStore cache.Store = cache.NewMemoryStore()
	if rdb, rErr := rediscli.NewClient(log); rErr != nil {
		log.Warn("Redis unavailable, using in-memory widget cache", "error", rErr)
	} else {
		cacheStore = cache.NewRedisStore(rdb)
	}

	// Outbound clients
	aiClient, err := ai.NewClient(log)
	if err != nil {
		log.Warn("AI client unavailable, meal plans will use stock suggestions", "error", err)
		aiClient = nil
	}
	fitClient, err := googlefit.NewClient(log)
	if err != nil {
		log.Warn("Google Fit client unavailable, wearable sync disabled", "error", err)
	}

	// Services
	log.Info("Setting up services...")
	authService := services.NewAuthService(gdb, log, userRepo, syncTokenRepo, cfg.JWTSecret, cfg.AccessTokenTTL)
	scoreService := services.NewScoreService(gdb, log, profileRepo, mealPlanRepo, foodLogRepo, trainingRepo, fitRepo, scoreRepo, weights, loc)
	nutritionService := services.NewNutritionService(gdb, log, foodLogRepo, profileRepo, trainingRepo, loc)
	mealPlanService := services.NewMealPlanService(gdb, log, mealPlanRepo, profileRepo, trainingRepo, aiClient)
	syncService := services.NewSyncService(gdb, log, fitClient, fitTokenRepo, fitRepo, loc)
	dashboardService := services.NewDashboardService(log, cacheStore, scoreService, mealPlanRepo, fitRepo, loc)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	scoreHandler := handlers.NewScoreHandler(scoreService)
	nutritionHandler := handlers.NewNutritionHandler(nutritionService, dashboardService)
	mealPlanHandler := handlers.NewMealPlanHandler(mealPlanService, dashboardService)
	syncHandler := handlers.NewSyncHandler(syncService, dashboardService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	router := server.NewRouter(server.RouterConfig{
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		ScoreHandler:     scoreHandler,
		NutritionHandler: nutritionHandler,
		MealPlanHandler:  mealPlanHandler,
		SyncHandler:      syncHandler,
		DashboardHandler: dashboardHandler,
	})

	log.Info("Starting server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
