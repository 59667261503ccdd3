package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/clients/resend"
	"github.com/oddjobz/oddjobz-backend/internal/repos"
	"github.com/oddjobz/oddjobz-backend/internal/repos/testutil"
	"github.com/oddjobz/oddjobz-backend/internal/requestdata"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

type fakeMailClient struct {
	mu   sync.Mutex
	sent []resend.SendEmailRequest
	fail bool
}

func (f *fakeMailClient) Send(_ context.Context, req resend.SendEmailRequest) (*resend.SendEmailResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, &resend.HTTPError{StatusCode: 500, Message: "boom"}
	}
	f.sent = append(f.sent, req)
	return &resend.SendEmailResult{ID: "fake"}, nil
}

func newAuthService(t *testing.T, mail resend.Client) AuthService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewAuthService(
		db, log,
		newUserRepo(t, db),
		repos.NewUserTokenRepo(db, log),
		mail,
		"test-secret",
		time.Hour,
		24*time.Hour,
		time.Hour,
		"http://localhost:3000",
	)
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.DB(t)
	svc := newAuthService(t, &fakeMailClient{})
	ctx := context.Background()

	email := uniqueEmail("reg")
	user, err := svc.RegisterUser(ctx, RegisterInput{
		Email:       email,
		Password:    "hunter2",
		Name:        "Sipho",
		ServiceType: "Gardener",
		Area:        "Cape Town",
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	t.Cleanup(func() {
		db.Where("user_id = ?", user.ID).Delete(&types.UserToken{})
		db.Where("id = ?", user.ID).Delete(&types.User{})
	})
	if user.ServiceType != "gardener" {
		t.Fatalf("expected normalized service type, got %q", user.ServiceType)
	}
	if user.Password == "hunter2" || user.Password == "" {
		t.Fatalf("expected bcrypt hash, got %q", user.Password)
	}

	result, err := svc.LoginUser(ctx, email, "hunter2")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" || result.User.ID != user.ID {
		t.Fatalf("LoginUser: incomplete result: %+v", result)
	}

	_, err = svc.LoginUser(ctx, email, "wrong")
	wantCode(t, err, apierr.CodeAuth)

	_, err = svc.LoginUser(ctx, uniqueEmail("nobody"), "hunter2")
	wantCode(t, err, apierr.CodeAuth)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testutil.DB(t)
	svc := newAuthService(t, &fakeMailClient{})
	ctx := context.Background()

	email := uniqueEmail("dup")
	input := RegisterInput{
		Email:       email,
		Password:    "hunter2",
		Name:        "First",
		ServiceType: "maid",
		Area:        "Durban",
	}
	user, err := svc.RegisterUser(ctx, input)
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	t.Cleanup(func() {
		db.Where("id = ?", user.ID).Delete(&types.User{})
	})

	input.Name = "Second"
	_, err = svc.RegisterUser(ctx, input)
	wantCode(t, err, apierr.CodeConflict)

	var count int64
	if err := db.Model(&types.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 row for %s, got %d", email, count)
	}
}

func TestTokenRefreshAndLogout(t *testing.T) {
	db := testutil.DB(t)
	svc := newAuthService(t, &fakeMailClient{})
	ctx := context.Background()

	user := seedRegisteredUser(t, svc, db, uniqueEmail("tok"))
	login, err := svc.LoginUser(ctx, user.Email, "hunter2")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	refreshed, err := svc.RefreshUser(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if refreshed.AccessToken == login.AccessToken {
		t.Fatalf("expected rotated access token")
	}

	// Old pair is gone after rotation.
	_, err = svc.RefreshUser(ctx, login.RefreshToken)
	wantCode(t, err, apierr.CodeAuth)

	authedCtx, err := svc.SetContextFromToken(ctx, refreshed.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("expected request data for %s, got %+v", user.ID, rd)
	}

	if err := svc.LogoutUser(authedCtx); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}

	// Revoked access token no longer authenticates.
	_, err = svc.SetContextFromToken(ctx, refreshed.AccessToken)
	wantCode(t, err, apierr.CodeAuth)
}

func TestForgotAndResetPassword(t *testing.T) {
	db := testutil.DB(t)
	mail := &fakeMailClient{}
	svc := newAuthService(t, mail)
	ctx := context.Background()

	user := seedRegisteredUser(t, svc, db, uniqueEmail("reset"))

	// Unknown email succeeds silently and sends nothing.
	if err := svc.ForgotPassword(ctx, uniqueEmail("ghost")); err != nil {
		t.Fatalf("ForgotPassword (unknown): %v", err)
	}
	if len(mail.sent) != 0 {
		t.Fatalf("expected no mail for unknown email")
	}

	if err := svc.ForgotPassword(ctx, user.Email); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mail.sent))
	}
	if !strings.Contains(mail.sent[0].HTML, "reset-password?token=") {
		t.Fatalf("expected reset link in mail body")
	}

	var stored types.User
	if err := db.Where("id = ?", user.ID).First(&stored).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.ResetToken == nil || len(*stored.ResetToken) != 64 {
		t.Fatalf("expected 32-byte hex reset token, got %+v", stored.ResetToken)
	}
	token := *stored.ResetToken

	if err := svc.ResetPassword(ctx, token, "short"); err == nil {
		t.Fatalf("expected validation error for short password")
	}

	// An open session from before the reset must not survive it.
	preReset, err := svc.LoginUser(ctx, user.Email, "hunter2")
	if err != nil {
		t.Fatalf("LoginUser before reset: %v", err)
	}

	if err := svc.ResetPassword(ctx, token, "newpassword"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := svc.LoginUser(ctx, user.Email, "newpassword"); err != nil {
		t.Fatalf("LoginUser after reset: %v", err)
	}

	_, err = svc.SetContextFromToken(ctx, preReset.AccessToken)
	wantCode(t, err, apierr.CodeAuth)

	// Single use: the same token fails the second time.
	err = svc.ResetPassword(ctx, token, "anotherpassword")
	wantCode(t, err, apierr.CodeAuth)

	// Expired tokens are rejected.
	expiredAt := time.Now().Add(-time.Minute)
	expiredTok := strings.Repeat("ab", 32)
	if err := db.Model(&types.User{}).Where("id = ?", user.ID).
		Updates(map[string]any{"reset_token": expiredTok, "reset_token_expiry": expiredAt}).Error; err != nil {
		t.Fatalf("force-expire token: %v", err)
	}
	err = svc.ResetPassword(ctx, expiredTok, "yetanotherpw")
	wantCode(t, err, apierr.CodeAuth)
}

func TestForgotPasswordMailFailure(t *testing.T) {
	db := testutil.DB(t)
	mail := &fakeMailClient{fail: true}
	svc := newAuthService(t, mail)
	ctx := context.Background()

	user := seedRegisteredUser(t, svc, db, uniqueEmail("mailfail"))

	err := svc.ForgotPassword(ctx, user.Email)
	wantCode(t, err, apierr.CodeDependency)
}

func seedRegisteredUser(t *testing.T, svc AuthService, db *gorm.DB, email string) *types.User {
	t.Helper()
	user, err := svc.RegisterUser(context.Background(), RegisterInput{
		Email:       email,
		Password:    "hunter2",
		Name:        "Seeded",
		ServiceType: "gardener",
		Area:        "Cape Town",
	})
	if err != nil {
		t.Fatalf("seed registered user: %v", err)
	}
	t.Cleanup(func() {
		db.Where("user_id = ?", user.ID).Delete(&types.UserToken{})
		db.Where("id = ?", user.ID).Delete(&types.User{})
	})
	return user
}
