package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/habiebr/fuel-score-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get handles GET /dashboard?refresh=true to bypass the widget cache.
func (dh *DashboardHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	refresh := c.Query("refresh") == "true"
	dashboard, cached, err := dh.dashboardService.GetDashboard(c.Request.Context(), userID, refresh)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Header("X-Cache", cacheHeader(cached))
	RespondOK(c, dashboard)
}

func (dh *DashboardHandler) GetWeeklyDistance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	distance, cached, err := dh.dashboardService.GetWeeklyDistance(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Header("X-Cache", cacheHeader(cached))
	RespondOK(c, distance)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
