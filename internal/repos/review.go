package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

type ReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error)
	ListByProvider(ctx context.Context, tx *gorm.DB, providerID uuid.UUID) ([]*types.ReviewWithCustomer, error)
	// AggregateByProvider recomputes the mean rating and review count over all
	// review rows for the provider, as seen by the supplied transaction.
	AggregateByProvider(ctx context.Context, tx *gorm.DB, providerID uuid.UUID) (float64, int, error)
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	repoLog := baseLog.With("repo", "ReviewRepo")
	return &reviewRepo{db: db, log: repoLog}
}

func (rr *reviewRepo) Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(reviews) == 0 {
		return []*types.Review{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&reviews).Error; err != nil {
		return nil, err
	}

	return reviews, nil
}

func (rr *reviewRepo) ListByProvider(ctx context.Context, tx *gorm.DB, providerID uuid.UUID) ([]*types.ReviewWithCustomer, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.ReviewWithCustomer
	if err := transaction.WithContext(ctx).
		Model(&types.Review{}).
		Select("reviews.*, customer.name AS customer_name").
		Joins("JOIN users customer ON customer.id = reviews.customer_id").
		Where("reviews.provider_id = ?", providerID).
		Order("reviews.created_at DESC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) AggregateByProvider(ctx context.Context, tx *gorm.DB, providerID uuid.UUID) (float64, int, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var row struct {
		AvgRating    float64 `gorm:"column:avg_rating"`
		TotalReviews int     `gorm:"column:total_reviews"`
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS total_reviews").
		Where("provider_id = ?", providerID).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.AvgRating, row.TotalReviews, nil
}
