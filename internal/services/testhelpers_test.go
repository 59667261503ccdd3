package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/repos"
	"github.com/oddjobz/oddjobz-backend/internal/repos/testutil"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

// Service tests commit real transactions, so rows are removed explicitly
// instead of relying on a rolled-back wrapper transaction.
func seedUser(t *testing.T, db *gorm.DB, email, name, serviceType, area string) *types.User {
	t.Helper()
	user := &types.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    "pw",
		Name:        name,
		ServiceType: serviceType,
		Area:        area,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	t.Cleanup(func() {
		db.Where("provider_id = ? OR customer_id = ?", user.ID, user.ID).Delete(&types.Review{})
		db.Where("provider_id = ? OR customer_id = ?", user.ID, user.ID).Delete(&types.Quote{})
		db.Where("sender_id = ? OR recipient_id = ?", user.ID, user.ID).Delete(&types.Message{})
		db.Where("user_id = ?", user.ID).Delete(&types.UserToken{})
		db.Where("id = ?", user.ID).Delete(&types.User{})
	})
	return user
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected %s error, got untyped: %v", code, err)
	}
	if ae.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, ae.Code, err)
	}
}

func newUserRepo(t *testing.T, db *gorm.DB) repos.UserRepo {
	t.Helper()
	return repos.NewUserRepo(db, testutil.Logger(t))
}
