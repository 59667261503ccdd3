package services

import (
	"context"
	"fmt"
	"math"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/repos"
	"github.com/oddjobz/oddjobz-backend/internal/repos/testutil"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

func TestReviewAggregation(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewReviewService(db, log, repos.NewReviewRepo(db, log), newUserRepo(t, db))
	ctx := context.Background()

	provider := seedUser(t, db, uniqueEmail("agg-p"), "Provider", "gardener", "Cape Town")
	c1 := seedUser(t, db, uniqueEmail("agg-c1"), "C1", "", "Cape Town")
	c2 := seedUser(t, db, uniqueEmail("agg-c2"), "C2", "", "Cape Town")
	c3 := seedUser(t, db, uniqueEmail("agg-c3"), "C3", "", "Cape Town")

	check := func(wantRating float64, wantCount int) {
		t.Helper()
		var got types.User
		if err := db.Where("id = ?", provider.ID).First(&got).Error; err != nil {
			t.Fatalf("reload provider: %v", err)
		}
		if got.Rating != wantRating || got.TotalReviews != wantCount {
			t.Fatalf("expected rating=%v total=%d, got rating=%v total=%d",
				wantRating, wantCount, got.Rating, got.TotalReviews)
		}
	}

	if _, err := svc.CreateReview(ctx, ReviewCreateInput{
		ProviderID: provider.ID, CustomerID: c1.ID, Rating: 4, Comment: "solid",
	}); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	check(4, 1)

	if _, err := svc.CreateReview(ctx, ReviewCreateInput{
		ProviderID: provider.ID, CustomerID: c2.ID, Rating: 5,
	}); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	check(4.5, 2)

	if _, err := svc.CreateReview(ctx, ReviewCreateInput{
		ProviderID: provider.ID, CustomerID: c3.ID, Rating: 3,
	}); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	check(4, 3)
}

func TestReviewValidation(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewReviewService(db, log, repos.NewReviewRepo(db, log), newUserRepo(t, db))
	ctx := context.Background()

	provider := seedUser(t, db, uniqueEmail("val-p"), "Provider", "maid", "Durban")
	customer := seedUser(t, db, uniqueEmail("val-c"), "Customer", "", "Durban")

	_, err := svc.CreateReview(ctx, ReviewCreateInput{
		ProviderID: provider.ID, CustomerID: customer.ID, Rating: 0,
	})
	wantCode(t, err, apierr.CodeValidation)

	_, err = svc.CreateReview(ctx, ReviewCreateInput{
		ProviderID: provider.ID, CustomerID: customer.ID, Rating: 6,
	})
	wantCode(t, err, apierr.CodeValidation)
}

func TestReviewUnknownProvider(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewReviewService(db, log, repos.NewReviewRepo(db, log), newUserRepo(t, db))
	ctx := context.Background()

	customer := seedUser(t, db, uniqueEmail("ukp-c"), "Customer", "", "Durban")
	ghost := seedUser(t, db, uniqueEmail("ukp-ghost"), "Ghost", "gardener", "Durban")
	ghostID := ghost.ID
	db.Where("id = ?", ghostID).Delete(&types.User{})

	_, err := svc.CreateReview(ctx, ReviewCreateInput{
		ProviderID: ghostID, CustomerID: customer.ID, Rating: 4,
	})
	wantCode(t, err, apierr.CodeNotFound)
}

// Concurrent submissions for one provider must serialize on the provider row
// so no recompute is lost.
func TestReviewConcurrentAggregation(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewReviewService(db, log, repos.NewReviewRepo(db, log), newUserRepo(t, db))
	ctx := context.Background()

	provider := seedUser(t, db, uniqueEmail("conc-p"), "Provider", "handyman", "Cape Town")

	const n = 8
	customers := make([]*types.User, n)
	for i := range customers {
		customers[i] = seedUser(t, db, uniqueEmail(fmt.Sprintf("conc-c%d", i)), "C", "", "Cape Town")
	}

	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			_, err := svc.CreateReview(ctx, ReviewCreateInput{
				ProviderID: provider.ID,
				CustomerID: customers[i].ID,
				Rating:     (i % 5) + 1,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent CreateReview: %v", err)
	}

	var got types.User
	if err := db.Where("id = ?", provider.ID).First(&got).Error; err != nil {
		t.Fatalf("reload provider: %v", err)
	}
	if got.TotalReviews != n {
		t.Fatalf("expected total_reviews=%d, got %d", n, got.TotalReviews)
	}

	var sum int
	for i := 0; i < n; i++ {
		sum += (i % 5) + 1
	}
	want := math.Round(float64(sum)/float64(n)*100) / 100
	if got.Rating != want {
		t.Fatalf("expected rating=%v, got %v", want, got.Rating)
	}
}
