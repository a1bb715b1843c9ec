package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/repos/testutil"
	"github.com/habiebr/fuel-score-backend/internal/requestdata"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	return NewAuthService(
		gdb,
		log,
		repos.NewUserRepo(gdb, log),
		repos.NewSyncTokenRepo(gdb, log),
		"test-secret",
		time.Hour,
	)
}

func TestRegisterLoginRoundtrip(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "Runner@Example.com", "longenoughpw", "Test Runner")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Email != "runner@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.Password == "longenoughpw" {
		t.Error("password stored in plaintext")
	}

	if _, err := svc.RegisterUser(ctx, "runner@example.com", "longenoughpw", ""); err == nil {
		t.Error("expected duplicate-email error")
	}

	if _, _, err := svc.LoginUser(ctx, "runner@example.com", "wrongpassword"); err == nil {
		t.Error("expected login failure with wrong password")
	}

	token, _, err := svc.LoginUser(ctx, "runner@example.com", "longenoughpw")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	authedCtx, err := svc.SetContextFromToken(ctx, token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil || rd.UserID != user.ID {
		t.Errorf("context user = %v, want %v", rd, user.ID)
	}

	if _, err := svc.SetContextFromToken(ctx, token+"tampered"); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "not-an-email", "longenoughpw", ""); err == nil {
		t.Error("expected invalid email to be rejected")
	}
	if _, err := svc.RegisterUser(ctx, "runner@example.com", "short", ""); err == nil {
		t.Error("expected short password to be rejected")
	}
}

func TestSyncTokenLifecycle(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "runner@example.com", "longenoughpw", "")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	plaintext, token, err := svc.CreateSyncToken(ctx, user.ID, "watch uploader")
	if err != nil {
		t.Fatalf("CreateSyncToken: %v", err)
	}
	if !strings.HasPrefix(plaintext, "fsb_") {
		t.Errorf("plaintext %q missing prefix", plaintext)
	}

	gotID, err := svc.VerifySyncToken(ctx, plaintext)
	if err != nil {
		t.Fatalf("VerifySyncToken: %v", err)
	}
	if gotID != user.ID {
		t.Errorf("verified user = %v, want %v", gotID, user.ID)
	}

	if _, err := svc.VerifySyncToken(ctx, plaintext+"x"); err == nil {
		t.Error("expected altered token to fail verification")
	}

	if err := svc.RevokeSyncToken(ctx, user.ID, token.ID); err != nil {
		t.Fatalf("RevokeSyncToken: %v", err)
	}
	if _, err := svc.VerifySyncToken(ctx, plaintext); err == nil {
		t.Error("expected revoked token to fail verification")
	}
	if err := svc.RevokeSyncToken(ctx, user.ID, uuid.New()); err == nil {
		t.Error("expected revoking unknown token to fail")
	}
}
