package types

import (
	"time"

	"github.com/google/uuid"
)

// User is both the account record and the directory profile. The rating and
// total_reviews columns are denormalized aggregates over the reviews table;
// only the review-creation transaction may write them.
type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email            string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password         string     `gorm:"not null;column:password" json:"-"`
	Name             string     `gorm:"not null;column:name" json:"name"`
	ServiceType      string     `gorm:"not null;column:service_type" json:"service_type"`
	Area             string     `gorm:"not null;column:area" json:"area"`
	Bio              string     `gorm:"column:bio" json:"bio"`
	Phone            string     `gorm:"column:phone" json:"phone"`
	HourlyRate       float64    `gorm:"type:numeric(10,2);column:hourly_rate" json:"hourly_rate"`
	ProfileImageURL  string     `gorm:"column:profile_image_url" json:"profile_image_url"`
	Rating           float64    `gorm:"type:numeric(3,2);not null;default:0;column:rating" json:"rating"`
	TotalReviews     int        `gorm:"not null;default:0;column:total_reviews" json:"total_reviews"`
	ResetToken       *string    `gorm:"index;column:reset_token" json:"-"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry" json:"-"`
	CreatedAt        time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
