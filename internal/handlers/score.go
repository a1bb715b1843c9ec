package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/habiebr/fuel-score-backend/internal/services"
)

type ScoreHandler struct {
	scoreService services.ScoreService
}

func NewScoreHandler(scoreService services.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// GetDaily handles GET /score/daily?date=YYYY-MM-DD, defaulting to today.
func (sh *ScoreHandler) GetDaily(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		result, err := sh.scoreService.GetTodayScore(c.Request.Context(), userID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, result)
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_date", errors.New("date must be YYYY-MM-DD"))
		return
	}
	result, err := sh.scoreService.GetDailyScore(c.Request.Context(), userID, date)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (sh *ScoreHandler) GetWeekly(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	result, err := sh.scoreService.GetWeeklyScore(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// GetMeals handles GET /score/meals?date=YYYY-MM-DD.
func (sh *ScoreHandler) GetMeals(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		RespondError(c, http.StatusBadRequest, "missing_date", errors.New("date query parameter is required"))
		return
	}
	result, err := sh.scoreService.GetMealScores(c.Request.Context(), userID, date)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
