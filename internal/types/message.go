package types

import (
	"time"

	"github.com/google/uuid"
)

// Message rows are append-only; there is no edit or delete path.
type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SenderID    uuid.UUID `gorm:"index;not null;column:sender_id" json:"sender_id"`
	Sender      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:SenderID;references:ID" json:"-"`
	RecipientID uuid.UUID `gorm:"index;not null;column:recipient_id" json:"recipient_id"`
	Recipient   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipientID;references:ID" json:"-"`
	Content     string    `gorm:"not null;column:content" json:"content"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageWithNames is the listing projection joined with both display names.
type MessageWithNames struct {
	Message
	SenderName    string `gorm:"column:sender_name" json:"sender_name"`
	RecipientName string `gorm:"column:recipient_name" json:"recipient_name"`
}
