package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/habiebr/fuel-score-backend/internal/services"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

type NutritionHandler struct {
	nutritionService services.NutritionService
	dashboardService services.DashboardService
}

func NewNutritionHandler(nutritionService services.NutritionService, dashboardService services.DashboardService) *NutritionHandler {
	return &NutritionHandler{
		nutritionService: nutritionService,
		dashboardService: dashboardService,
	}
}

func (nh *NutritionHandler) LogFood(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Items []services.FoodLogInput `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	logs, err := nh.nutritionService.LogFood(c.Request.Context(), userID, req.Items)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	// New food changes today's widgets immediately.
	nh.dashboardService.InvalidateUser(c.Request.Context(), userID)
	c.JSON(http.StatusCreated, gin.H{"logs": logs})
}

func (nh *NutritionHandler) GetFoodLogs(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		RespondError(c, http.StatusBadRequest, "missing_date", errors.New("date query parameter is required"))
		return
	}
	logs, err := nh.nutritionService.GetFoodLogs(c.Request.Context(), userID, date)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"logs": logs})
}

func (nh *NutritionHandler) GetProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	profile, err := nh.nutritionService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, profile)
}

func (nh *NutritionHandler) UpsertProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Age      int     `json:"age"`
		Sex      string  `json:"sex"`
		WeightKG float64 `json:"weight_kg"`
		HeightCM float64 `json:"height_cm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	profile, err := nh.nutritionService.UpsertProfile(c.Request.Context(), userID, &types.UserProfile{
		Age:      req.Age,
		Sex:      req.Sex,
		WeightKG: req.WeightKG,
		HeightCM: req.HeightCM,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, profile)
}

func (nh *NutritionHandler) AddTrainingActivities(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Activities []services.TrainingActivityInput `json:"activities"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	activities, err := nh.nutritionService.AddTrainingActivities(c.Request.Context(), userID, req.Activities)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"activities": activities})
}

func (nh *NutritionHandler) GetTrainingActivities(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		RespondError(c, http.StatusBadRequest, "missing_date", errors.New("date query parameter is required"))
		return
	}
	activities, err := nh.nutritionService.GetTrainingActivities(c.Request.Context(), userID, date)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"activities": activities})
}
