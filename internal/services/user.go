package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/normalization"
	"github.com/oddjobz/oddjobz-backend/internal/repos"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

type ProfileUpdateInput struct {
	Bio             string
	Phone           string
	HourlyRate      float64
	ProfileImageURL string
}

type UserService interface {
	// ListDirectory filters by exact service type and case-insensitive
	// substring match on area. The result is unbounded; the directory is
	// expected to stay small.
	ListDirectory(ctx context.Context, serviceType, area string) ([]*types.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdateInput) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) ListDirectory(ctx context.Context, serviceType, area string) ([]*types.User, error) {
	serviceType = normalization.ParseInputString(serviceType)
	area = normalization.TrimInputString(area)

	users, err := us.userRepo.ListDirectory(ctx, nil, serviceType, area)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("list directory: %w", err))
	}
	return users, nil
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("load user: %w", err))
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user not found")
	}
	return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdateInput) (*types.User, error) {
	if input.HourlyRate < 0 {
		return nil, apierr.Validation("hourly rate cannot be negative")
	}

	var updated *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return apierr.Storage(fmt.Errorf("load user: %w", err))
		}
		if len(users) == 0 {
			return apierr.NotFound("user not found")
		}
		if err := us.userRepo.UpdateProfile(ctx, tx, userID, input.Bio, input.Phone, input.HourlyRate, input.ProfileImageURL); err != nil {
			return apierr.Storage(fmt.Errorf("update profile: %w", err))
		}
		reloaded, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return apierr.Storage(fmt.Errorf("reload user: %w", err))
		}
		updated = reloaded[0]
		return nil
	})
	if err != nil {
		return nil, apierr.From(err)
	}
	return updated, nil
}
