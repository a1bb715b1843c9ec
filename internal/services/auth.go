package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/habiebr/fuel-score-backend/internal/platform/apierr"
	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/requestdata"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

// syncTokenPrefix marks long-lived sync credentials so the auth middleware
// can route them away from JWT parsing.
const syncTokenPrefix = "fsb_"

type AuthService interface {
	RegisterUser(ctx context.Context, email, password, fullName string) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, *types.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration

	// CreateSyncToken mints a headless-client credential. The returned
	// plaintext is shown once; only its bcrypt hash is stored.
	CreateSyncToken(ctx context.Context, userID uuid.UUID, name string) (string, *types.SyncToken, error)
	VerifySyncToken(ctx context.Context, plaintext string) (uuid.UUID, error)
	RevokeSyncToken(ctx context.Context, userID, tokenID uuid.UUID) error
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	syncTokenRepo repos.SyncTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	syncTokenRepo repos.SyncTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		syncTokenRepo: syncTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, email, password, fullName string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.New(http.StatusBadRequest, "invalid_email", fmt.Errorf("invalid email"))
	}
	if len(password) < 8 {
		return nil, apierr.New(http.StatusBadRequest, "weak_password", fmt.Errorf("password must be at least 8 characters"))
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.New(http.StatusConflict, "email_taken", fmt.Errorf("email already registered"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		FullName: strings.TrimSpace(fullName),
	}
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cErr := as.userRepo.Create(ctx, tx, user); cErr != nil {
			if repos.IsUniqueViolation(cErr) {
				return apierr.New(http.StatusConflict, "email_taken", fmt.Errorf("email already registered"))
			}
			return fmt.Errorf("create user: %w", cErr)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	as.log.Info("user registered", "user_id", user.ID.String())
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, *types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil || user == nil {
		return "", nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid email or password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid email or password"))
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return token, user, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates an access token and attaches the caller's
// identity to the context for downstream handlers.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("malformed claims"))
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("malformed subject"))
	}

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) CreateSyncToken(ctx context.Context, userID uuid.UUID, name string) (string, *types.SyncToken, error) {
	if strings.TrimSpace(name) == "" {
		name = "sync client"
	}

	secretBytes := make([]byte, 24)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", nil, fmt.Errorf("generate secret: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash secret: %w", err)
	}

	token := &types.SyncToken{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		TokenHash: string(hash),
	}
	if err := as.syncTokenRepo.Create(ctx, nil, token); err != nil {
		return "", nil, fmt.Errorf("store sync token: %w", err)
	}

	// The user ID travels in the plaintext so verification can scope the
	// bcrypt comparison to one user's active tokens.
	plaintext := fmt.Sprintf("%s%s_%s", syncTokenPrefix, userID.String(), secret)
	as.log.Info("sync token created", "user_id", userID.String(), "token_id", token.ID.String())
	return plaintext, token, nil
}

func (as *authService) VerifySyncToken(ctx context.Context, plaintext string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(plaintext, syncTokenPrefix)
	if !ok {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("not a sync token"))
	}
	idPart, secret, ok := strings.Cut(rest, "_")
	if !ok {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("malformed sync token"))
	}
	userID, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("malformed sync token"))
	}

	tokens, err := as.syncTokenRepo.GetActiveByUser(ctx, nil, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load sync tokens: %w", err)
	}
	for _, t := range tokens {
		if bcrypt.CompareHashAndPassword([]byte(t.TokenHash), []byte(secret)) == nil {
			if tErr := as.syncTokenRepo.Touch(ctx, nil, t.ID, time.Now()); tErr != nil {
				as.log.Warn("failed to touch sync token", "token_id", t.ID.String(), "error", tErr)
			}
			return userID, nil
		}
	}
	return uuid.Nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("unknown or revoked sync token"))
}

func (as *authService) RevokeSyncToken(ctx context.Context, userID, tokenID uuid.UUID) error {
	tokens, err := as.syncTokenRepo.GetActiveByUser(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("load sync tokens: %w", err)
	}
	for _, t := range tokens {
		if t.ID == tokenID {
			return as.syncTokenRepo.Revoke(ctx, nil, tokenID, time.Now())
		}
	}
	return apierr.New(http.StatusNotFound, "token_not_found", fmt.Errorf("sync token not found"))
}
