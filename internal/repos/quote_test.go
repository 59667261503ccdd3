package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/oddjobz/oddjobz-backend/internal/repos/testutil"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

func TestQuoteRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	userRepo := NewUserRepo(db, testutil.Logger(t))
	repo := NewQuoteRepo(db, testutil.Logger(t))
	ctx := context.Background()

	users, err := userRepo.Create(ctx, tx, []*types.User{
		newTestUser("quote-p@example.com", "Provider", "handyman", "Cape Town"),
		newTestUser("quote-c@example.com", "Customer", "", "Cape Town"),
	})
	if err != nil {
		t.Fatalf("Create users: %v", err)
	}
	provider, customer := users[0], users[1]

	created, err := repo.Create(ctx, tx, []*types.Quote{{
		ID:         uuid.New(),
		ProviderID: provider.ID,
		CustomerID: customer.ID,
		Title:      "Fix gate",
		Amount:     450,
		Status:     types.QuoteStatusPending,
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	quoteID := created[0].ID

	locked, err := repo.GetByIDForUpdate(ctx, tx, quoteID)
	if err != nil {
		t.Fatalf("GetByIDForUpdate: %v", err)
	}
	if locked == nil || locked.Status != types.QuoteStatusPending {
		t.Fatalf("GetByIDForUpdate: unexpected result: %+v", locked)
	}

	if err := repo.UpdateStatus(ctx, tx, quoteID, types.QuoteStatusAccepted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{quoteID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].Status != types.QuoteStatusAccepted {
		t.Fatalf("expected accepted, got %+v", got)
	}

	asProvider, err := repo.ListForUser(ctx, tx, provider.ID, "provider")
	if err != nil {
		t.Fatalf("ListForUser (provider): %v", err)
	}
	if len(asProvider) != 1 || asProvider[0].ProviderName != "Provider" || asProvider[0].CustomerName != "Customer" {
		t.Fatalf("ListForUser (provider): unexpected result: %+v", asProvider)
	}

	asCustomer, err := repo.ListForUser(ctx, tx, customer.ID, "customer")
	if err != nil {
		t.Fatalf("ListForUser (customer): %v", err)
	}
	if len(asCustomer) != 1 {
		t.Fatalf("ListForUser (customer): expected 1, got %d", len(asCustomer))
	}

	// Role omitted: both sides.
	either, err := repo.ListForUser(ctx, tx, provider.ID, "")
	if err != nil {
		t.Fatalf("ListForUser (either): %v", err)
	}
	if len(either) != 1 {
		t.Fatalf("ListForUser (either): expected 1, got %d", len(either))
	}

	// Wrong side sees nothing.
	none, err := repo.ListForUser(ctx, tx, customer.ID, "provider")
	if err != nil {
		t.Fatalf("ListForUser (wrong side): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("ListForUser (wrong side): expected 0, got %d", len(none))
	}
}
