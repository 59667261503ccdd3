package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/oddjobz/oddjobz-backend/internal/repos/testutil"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

func TestReviewRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	userRepo := NewUserRepo(db, testutil.Logger(t))
	repo := NewReviewRepo(db, testutil.Logger(t))
	ctx := context.Background()

	users, err := userRepo.Create(ctx, tx, []*types.User{
		newTestUser("rev-p@example.com", "Provider", "gardener", "Cape Town"),
		newTestUser("rev-c1@example.com", "Customer One", "", "Cape Town"),
		newTestUser("rev-c2@example.com", "Customer Two", "", "Durban"),
	})
	if err != nil {
		t.Fatalf("Create users: %v", err)
	}
	provider, c1, c2 := users[0], users[1], users[2]

	// Empty aggregate before any reviews.
	avg, count, err := repo.AggregateByProvider(ctx, tx, provider.ID)
	if err != nil {
		t.Fatalf("AggregateByProvider (empty): %v", err)
	}
	if avg != 0 || count != 0 {
		t.Fatalf("AggregateByProvider (empty): got avg=%v count=%d", avg, count)
	}

	base := time.Now().Add(-time.Hour)
	if _, err := repo.Create(ctx, tx, []*types.Review{
		{ID: uuid.New(), ProviderID: provider.ID, CustomerID: c1.ID, Rating: 4, Comment: "good", CreatedAt: base},
		{ID: uuid.New(), ProviderID: provider.ID, CustomerID: c2.ID, Rating: 5, Comment: "great", CreatedAt: base.Add(time.Minute)},
	}); err != nil {
		t.Fatalf("Create reviews: %v", err)
	}

	avg, count, err = repo.AggregateByProvider(ctx, tx, provider.ID)
	if err != nil {
		t.Fatalf("AggregateByProvider: %v", err)
	}
	if avg != 4.5 || count != 2 {
		t.Fatalf("AggregateByProvider: got avg=%v count=%d", avg, count)
	}

	listed, err := repo.ListByProvider(ctx, tx, provider.ID)
	if err != nil {
		t.Fatalf("ListByProvider: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListByProvider: expected 2, got %d", len(listed))
	}
	if listed[0].Rating != 5 || listed[0].CustomerName != "Customer Two" {
		t.Fatalf("ListByProvider: expected newest first with customer name, got %+v", listed[0])
	}
}
