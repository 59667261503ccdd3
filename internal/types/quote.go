package types

import (
	"time"

	"github.com/google/uuid"
)

// Quote statuses. A quote starts pending and transitions exactly once to a
// terminal status; accepted and rejected admit no further transition.
const (
	QuoteStatusPending  = "pending"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

type Quote struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProviderID  uuid.UUID `gorm:"index;not null;column:provider_id" json:"provider_id"`
	Provider    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProviderID;references:ID" json:"-"`
	CustomerID  uuid.UUID `gorm:"index;not null;column:customer_id" json:"customer_id"`
	Customer    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomerID;references:ID" json:"-"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Amount      float64   `gorm:"type:numeric(10,2);not null;column:amount" json:"amount"`
	Status      string    `gorm:"not null;default:'pending';column:status" json:"status"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Quote) TableName() string {
	return "quotes"
}

func IsTerminalQuoteStatus(status string) bool {
	return status == QuoteStatusAccepted || status == QuoteStatusRejected
}

// QuoteWithNames is the listing projection joined with both display names.
type QuoteWithNames struct {
	Quote
	ProviderName string `gorm:"column:provider_name" json:"provider_name"`
	CustomerName string `gorm:"column:customer_name" json:"customer_name"`
}
