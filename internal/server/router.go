package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/habiebr/fuel-score-backend/internal/handlers"
	"github.com/habiebr/fuel-score-backend/internal/middleware"
	"github.com/habiebr/fuel-score-backend/internal/platform/envutil"
)

type RouterConfig struct {
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	ScoreHandler     *handlers.ScoreHandler
	NutritionHandler *handlers.NutritionHandler
	MealPlanHandler  *handlers.MealPlanHandler
	SyncHandler      *handlers.SyncHandler
	DashboardHandler *handlers.DashboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(envutil.String("OTEL_SERVICE_NAME", "fuel-score-backend")))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"https://app.fuelscore.run",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Scores
	protected.GET("/score/daily", cfg.ScoreHandler.GetDaily)
	protected.GET("/score/weekly", cfg.ScoreHandler.GetWeekly)
	protected.GET("/score/meals", cfg.ScoreHandler.GetMeals)

	// Food logging + profile + training calendar
	protected.POST("/food-logs", cfg.NutritionHandler.LogFood)
	protected.GET("/food-logs", cfg.NutritionHandler.GetFoodLogs)
	protected.GET("/profile", cfg.NutritionHandler.GetProfile)
	protected.PUT("/profile", cfg.NutritionHandler.UpsertProfile)
	protected.POST("/training", cfg.NutritionHandler.AddTrainingActivities)
	protected.GET("/training", cfg.NutritionHandler.GetTrainingActivities)

	// Meal plans
	protected.GET("/meal-plan", cfg.MealPlanHandler.Get)
	protected.POST("/meal-plan/generate", cfg.MealPlanHandler.Generate)

	// Wearable sync
	protected.GET("/sync/google-fit/link", cfg.SyncHandler.LinkURL)
	protected.POST("/sync/google-fit/callback", cfg.SyncHandler.OAuthCallback)
	protected.POST("/sync/google-fit", cfg.SyncHandler.Sync)

	// Sync tokens for headless clients
	protected.POST("/sync-tokens", cfg.AuthHandler.CreateSyncToken)
	protected.DELETE("/sync-tokens/:id", cfg.AuthHandler.RevokeSyncToken)

	// Dashboard widgets
	protected.GET("/dashboard", cfg.DashboardHandler.Get)
	protected.GET("/dashboard/weekly-distance", cfg.DashboardHandler.GetWeeklyDistance)

	return router
}
