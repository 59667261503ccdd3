package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/normalization"
	"github.com/oddjobz/oddjobz-backend/internal/repos"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

type ReviewCreateInput struct {
	ProviderID uuid.UUID
	CustomerID uuid.UUID
	Rating     int
	Comment    string
}

type ReviewService interface {
	// CreateReview inserts the review and recomputes the provider's
	// denormalized rating/total_reviews in one transaction. The provider row
	// is locked first, so concurrent submissions for the same provider
	// serialize their read-aggregate/write-aggregate sequence; submissions
	// for different providers do not block each other.
	CreateReview(ctx context.Context, input ReviewCreateInput) (*types.Review, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*types.ReviewWithCustomer, error)
}

type reviewService struct {
	db         *gorm.DB
	log        *logger.Logger
	reviewRepo repos.ReviewRepo
	userRepo   repos.UserRepo
}

func NewReviewService(db *gorm.DB, log *logger.Logger, reviewRepo repos.ReviewRepo, userRepo repos.UserRepo) ReviewService {
	serviceLog := log.With("service", "ReviewService")
	return &reviewService{db: db, log: serviceLog, reviewRepo: reviewRepo, userRepo: userRepo}
}

func (rs *reviewService) CreateReview(ctx context.Context, input ReviewCreateInput) (*types.Review, error) {
	input.Comment = normalization.TrimInputString(input.Comment)

	switch {
	case input.ProviderID == uuid.Nil:
		return nil, apierr.Validation("provider is required")
	case input.CustomerID == uuid.Nil:
		return nil, apierr.Validation("customer is required")
	case input.Rating < 1 || input.Rating > 5:
		return nil, apierr.Validation("rating must be between 1 and 5")
	}

	review := &types.Review{
		ID:         uuid.New(),
		ProviderID: input.ProviderID,
		CustomerID: input.CustomerID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}

	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		provider, err := rs.userRepo.GetByIDForUpdate(ctx, tx, input.ProviderID)
		if err != nil {
			return apierr.Storage(fmt.Errorf("lock provider: %w", err))
		}
		if provider == nil {
			return apierr.NotFound("provider not found")
		}

		if _, err := rs.reviewRepo.Create(ctx, tx, []*types.Review{review}); err != nil {
			return apierr.Storage(fmt.Errorf("create review: %w", err))
		}

		avg, count, err := rs.reviewRepo.AggregateByProvider(ctx, tx, input.ProviderID)
		if err != nil {
			return apierr.Storage(fmt.Errorf("recompute aggregate: %w", err))
		}

		rounded := math.Round(avg*100) / 100
		if err := rs.userRepo.UpdateRating(ctx, tx, input.ProviderID, rounded, count); err != nil {
			return apierr.Storage(fmt.Errorf("write aggregate: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, apierr.From(err)
	}
	return review, nil
}

func (rs *reviewService) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*types.ReviewWithCustomer, error) {
	if providerID == uuid.Nil {
		return nil, apierr.Validation("provider is required")
	}
	reviews, err := rs.reviewRepo.ListByProvider(ctx, nil, providerID)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("list reviews: %w", err))
	}
	return reviews, nil
}
