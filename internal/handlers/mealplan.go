package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/habiebr/fuel-score-backend/internal/services"
)

type MealPlanHandler struct {
	mealPlanService  services.MealPlanService
	dashboardService services.DashboardService
}

func NewMealPlanHandler(mealPlanService services.MealPlanService, dashboardService services.DashboardService) *MealPlanHandler {
	return &MealPlanHandler{
		mealPlanService:  mealPlanService,
		dashboardService: dashboardService,
	}
}

func (mh *MealPlanHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	date, ok := requireDate(c)
	if !ok {
		return
	}
	plans, err := mh.mealPlanService.GetMealPlan(c.Request.Context(), userID, date)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"date": date, "meals": plans})
}

func (mh *MealPlanHandler) Generate(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_date", errors.New("date must be YYYY-MM-DD"))
		return
	}
	plans, err := mh.mealPlanService.GenerateMealPlan(c.Request.Context(), userID, req.Date)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	mh.dashboardService.InvalidateUser(c.Request.Context(), userID)
	c.JSON(http.StatusCreated, gin.H{"date": req.Date, "meals": plans})
}

func requireDate(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if date == "" {
		RespondError(c, http.StatusBadRequest, "missing_date", errors.New("date query parameter is required"))
		return "", false
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_date", errors.New("date must be YYYY-MM-DD"))
		return "", false
	}
	return date, true
}
