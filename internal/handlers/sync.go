package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/habiebr/fuel-score-backend/internal/services"
)

type SyncHandler struct {
	syncService      services.SyncService
	dashboardService services.DashboardService
}

func NewSyncHandler(syncService services.SyncService, dashboardService services.DashboardService) *SyncHandler {
	return &SyncHandler{
		syncService:      syncService,
		dashboardService: dashboardService,
	}
}

// LinkURL handles GET /sync/google-fit/link?redirect_uri=...&state=...
func (sh *SyncHandler) LinkURL(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}
	redirectURI := c.Query("redirect_uri")
	if redirectURI == "" {
		RespondError(c, http.StatusBadRequest, "missing_redirect_uri", errors.New("redirect_uri query parameter is required"))
		return
	}
	url := sh.syncService.AuthURL(c.Query("state"), redirectURI)
	if url == "" {
		RespondError(c, http.StatusServiceUnavailable, "sync_unavailable", errors.New("google fit integration is not configured"))
		return
	}
	RespondOK(c, gin.H{"url": url})
}

func (sh *SyncHandler) OAuthCallback(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Code        string `json:"code"`
		RedirectURI string `json:"redirect_uri"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" || req.RedirectURI == "" {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("code and redirect_uri are required"))
		return
	}
	if err := sh.syncService.HandleOAuthCallback(c.Request.Context(), userID, req.Code, req.RedirectURI); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"linked": true})
}

// Sync handles POST /sync/google-fit?days=N (default 1).
func (sh *SyncHandler) Sync(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	days := 1
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_days", errors.New("days must be a positive integer"))
			return
		}
		days = parsed
	}
	rows, err := sh.syncService.SyncRecent(c.Request.Context(), userID, days)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	sh.dashboardService.InvalidateUser(c.Request.Context(), userID)
	RespondOK(c, gin.H{"synced_days": len(rows), "data": rows})
}
