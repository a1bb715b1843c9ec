package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/habiebr/fuel-score-backend/internal/clients/googlefit"
	"github.com/habiebr/fuel-score-backend/internal/platform/apierr"
	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

// maxSyncDays caps a single backfill request.
const maxSyncDays = 30

type SyncService interface {
	// AuthURL returns the Google consent URL for linking a Fit account.
	AuthURL(state, redirectURI string) string
	// HandleOAuthCallback exchanges the authorization code and stores the
	// user's Fit credentials.
	HandleOAuthCallback(ctx context.Context, userID uuid.UUID, code, redirectURI string) error
	// SyncDay pulls one calendar day of wearable data and upserts it.
	SyncDay(ctx context.Context, userID uuid.UUID, date string) (*types.GoogleFitData, error)
	// SyncRecent backfills the last `days` days ending today.
	SyncRecent(ctx context.Context, userID uuid.UUID, days int) ([]*types.GoogleFitData, error)
}

type syncService struct {
	db        *gorm.DB
	log       *logger.Logger
	fitClient *googlefit.Client
	tokenRepo repos.GoogleFitTokenRepo
	fitRepo   repos.GoogleFitRepo
	loc       *time.Location
	now       func() time.Time
}

func NewSyncService(
	db *gorm.DB,
	log *logger.Logger,
	fitClient *googlefit.Client,
	tokenRepo repos.GoogleFitTokenRepo,
	fitRepo repos.GoogleFitRepo,
	loc *time.Location,
) SyncService {
	return &syncService{
		db:        db,
		log:       log.With("service", "SyncService"),
		fitClient: fitClient,
		tokenRepo: tokenRepo,
		fitRepo:   fitRepo,
		loc:       loc,
		now:       time.Now,
	}
}

var errSyncUnavailable = apierr.New(http.StatusServiceUnavailable, "sync_unavailable", fmt.Errorf("google fit integration is not configured"))

func (sy *syncService) AuthURL(state, redirectURI string) string {
	if sy.fitClient == nil {
		return ""
	}
	return sy.fitClient.AuthURL(state, redirectURI)
}

func (sy *syncService) HandleOAuthCallback(ctx context.Context, userID uuid.UUID, code, redirectURI string) error {
	if sy.fitClient == nil {
		return errSyncUnavailable
	}
	token, err := sy.fitClient.Exchange(ctx, code, redirectURI)
	if err != nil {
		return apierr.New(http.StatusBadGateway, "oauth_exchange_failed", fmt.Errorf("exchange authorization code: %w", err))
	}
	if token.RefreshToken == "" {
		return apierr.New(http.StatusBadRequest, "missing_refresh_token", fmt.Errorf("google did not return a refresh token; re-link with consent"))
	}

	row := &types.GoogleFitToken{
		ID:           uuid.New(),
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	if err := sy.tokenRepo.Upsert(ctx, nil, row); err != nil {
		return fmt.Errorf("store google fit token: %w", err)
	}
	sy.log.Info("google fit linked", "user_id", userID.String())
	return nil
}

func (sy *syncService) SyncDay(ctx context.Context, userID uuid.UUID, date string) (*types.GoogleFitData, error) {
	if sy.fitClient == nil {
		return nil, errSyncUnavailable
	}
	dayStart, err := time.ParseInLocation(dateLayout, date, sy.loc)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_date", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date))
	}

	token, err := sy.loadToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	row, refreshed, err := sy.pullDay(ctx, userID, token, dayStart)
	if err != nil {
		return nil, err
	}
	sy.persistRefreshedToken(ctx, userID, token, refreshed)

	if err := sy.fitRepo.Upsert(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("store wearable day: %w", err)
	}
	return row, nil
}

func (sy *syncService) SyncRecent(ctx context.Context, userID uuid.UUID, days int) ([]*types.GoogleFitData, error) {
	if sy.fitClient == nil {
		return nil, errSyncUnavailable
	}
	if days <= 0 {
		days = 1
	}
	if days > maxSyncDays {
		days = maxSyncDays
	}

	token, err := sy.loadToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := sy.now().In(sy.loc)
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, sy.loc)

	var (
		out       []*types.GoogleFitData
		refreshed *oauth2.Token
	)
	for i := days - 1; i >= 0; i-- {
		dayStart := todayStart.AddDate(0, 0, -i)
		row, newTok, pErr := sy.pullDay(ctx, userID, token, dayStart)
		if pErr != nil {
			// Keep going; one bad day should not abort a backfill.
			sy.log.Warn("day sync failed", "user_id", userID.String(), "date", dayStart.Format(dateLayout), "error", pErr)
			continue
		}
		if newTok != nil {
			refreshed = newTok
		}
		if uErr := sy.fitRepo.Upsert(ctx, nil, row); uErr != nil {
			return nil, fmt.Errorf("store wearable day: %w", uErr)
		}
		out = append(out, row)
	}
	sy.persistRefreshedToken(ctx, userID, token, refreshed)

	sy.log.Info("wearable sync complete", "user_id", userID.String(), "days_requested", days, "days_synced", len(out))
	return out, nil
}

func (sy *syncService) loadToken(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error) {
	row, err := sy.tokenRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load google fit token: %w", err)
	}
	if row == nil {
		return nil, apierr.New(http.StatusConflict, "fit_not_linked", fmt.Errorf("google fit is not linked for this account"))
	}
	return &oauth2.Token{
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		TokenType:    row.TokenType,
		Expiry:       row.Expiry,
	}, nil
}

// pullDay fetches sessions and day totals for one local day. The returned
// token is non-nil when a refresh happened during the calls.
func (sy *syncService) pullDay(ctx context.Context, userID uuid.UUID, token *oauth2.Token, dayStart time.Time) (*types.GoogleFitData, *oauth2.Token, error) {
	dayEnd := dayStart.AddDate(0, 0, 1)

	sessions, refreshed, err := sy.fitClient.Sessions(ctx, token, dayStart, dayEnd)
	if err != nil {
		return nil, nil, fmt.Errorf("list sessions: %w", err)
	}
	totals, err := sy.fitClient.DayTotals(ctx, token, dayStart)
	if err != nil {
		return nil, refreshed, fmt.Errorf("aggregate day totals: %w", err)
	}

	var sessionsJSON []byte
	if len(sessions) > 0 {
		fitSessions := make([]types.FitSession, 0, len(sessions))
		for _, s := range sessions {
			fitSessions = append(fitSessions, types.FitSession{
				SessionID:       s.ID,
				ActivityType:    s.ActivityType,
				StartTime:       s.Start.Format(time.RFC3339),
				EndTime:         s.End.Format(time.RFC3339),
				DurationMinutes: s.DurationMinutes,
			})
		}
		sessionsJSON, err = json.Marshal(fitSessions)
		if err != nil {
			return nil, refreshed, fmt.Errorf("marshal sessions: %w", err)
		}
	}

	return &types.GoogleFitData{
		ID:             uuid.New(),
		UserID:         userID,
		Date:           dayStart.Format(dateLayout),
		Steps:          totals.Steps,
		CaloriesBurned: totals.Calories,
		ActiveMinutes:  totals.ActiveMinutes,
		DistanceMeters: totals.DistanceMeters,
		AvgHeartRate:   totals.AvgHeartRate,
		Sessions:       sessionsJSON,
		LastSyncedAt:   sy.now(),
	}, refreshed, nil
}

func (sy *syncService) persistRefreshedToken(ctx context.Context, userID uuid.UUID, old, refreshed *oauth2.Token) {
	if refreshed == nil || refreshed.AccessToken == old.AccessToken {
		return
	}
	row := &types.GoogleFitToken{
		ID:           uuid.New(),
		UserID:       userID,
		AccessToken:  refreshed.AccessToken,
		RefreshToken: old.RefreshToken,
		TokenType:    refreshed.TokenType,
		Expiry:       refreshed.Expiry,
	}
	if refreshed.RefreshToken != "" {
		row.RefreshToken = refreshed.RefreshToken
	}
	if err := sy.tokenRepo.Upsert(ctx, nil, row); err != nil {
		sy.log.Warn("failed to persist refreshed google token", "user_id", userID.String(), "error", err)
	}
}
