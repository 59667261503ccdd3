package types

import (
	"time"

	"github.com/google/uuid"
)

// Review rows are immutable and are the source of truth for the provider's
// denormalized rating and total_reviews columns.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProviderID uuid.UUID `gorm:"index;not null;column:provider_id" json:"provider_id"`
	Provider   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProviderID;references:ID" json:"-"`
	CustomerID uuid.UUID `gorm:"index;not null;column:customer_id" json:"customer_id"`
	Customer   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomerID;references:ID" json:"-"`
	Rating     int       `gorm:"not null;column:rating" json:"rating"`
	Comment    string    `gorm:"column:comment" json:"comment"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewWithCustomer is the listing projection joined with the reviewer name.
type ReviewWithCustomer struct {
	Review
	CustomerName string `gorm:"column:customer_name" json:"customer_name"`
}
