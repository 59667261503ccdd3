package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
	GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error)
	EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error)
	// GetByIDForUpdate takes a row-level lock; concurrent callers for the same
	// user serialize until the surrounding transaction commits.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error)
	ListDirectory(ctx context.Context, tx *gorm.DB, serviceType, area string) ([]*types.User, error)
	UpdateProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID, bio, phone string, hourlyRate float64, profileImageURL string) error
	UpdateRating(ctx context.Context, tx *gorm.DB, userID uuid.UUID, rating float64, totalReviews int) error
	SetResetToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string, expiry time.Time) error
	GetByValidResetToken(ctx context.Context, tx *gorm.DB, token string, now time.Time) (*types.User, error)
	UpdatePasswordAndClearResetToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, passwordHash string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(users) == 0 {
		return []*types.User{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User

	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if len(userEmails) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("email IN ?", userEmails).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("email = ?", userEmail).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ur *userRepo) ListDirectory(ctx context.Context, tx *gorm.DB, serviceType, area string) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	q := transaction.WithContext(ctx).Model(&types.User{})
	if serviceType != "" {
		q = q.Where("service_type = ?", serviceType)
	}
	if area != "" {
		q = q.Where("area ILIKE ?", "%"+area+"%")
	}

	var results []*types.User
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UpdateProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID, bio, phone string, hourlyRate float64, profileImageURL string) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"bio":               bio,
			"phone":             phone,
			"hourly_rate":       hourlyRate,
			"profile_image_url": profileImageURL,
			"updated_at":        gorm.Expr("now()"),
		}).Error
}

func (ur *userRepo) UpdateRating(ctx context.Context, tx *gorm.DB, userID uuid.UUID, rating float64, totalReviews int) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"rating":        rating,
			"total_reviews": totalReviews,
			"updated_at":    gorm.Expr("now()"),
		}).Error
}

func (ur *userRepo) SetResetToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string, expiry time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_token":        token,
			"reset_token_expiry": expiry,
		}).Error
}

func (ur *userRepo) GetByValidResetToken(ctx context.Context, tx *gorm.DB, token string, now time.Time) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if err := transaction.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expiry > ?", token, now).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ur *userRepo) UpdatePasswordAndClearResetToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, passwordHash string) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password":           passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
			"updated_at":         gorm.Expr("now()"),
		}).Error
}
