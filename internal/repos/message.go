package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

type MessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, messages []*types.Message) ([]*types.Message, error)
	// ListForUser returns messages where the user is sender or recipient,
	// newest-first, capped at limit. A non-nil counterpart restricts the
	// result to the conversation between the two users in either direction.
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, counterpart *uuid.UUID, limit int) ([]*types.MessageWithNames, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	repoLog := baseLog.With("repo", "MessageRepo")
	return &messageRepo{db: db, log: repoLog}
}

func (mr *messageRepo) Create(ctx context.Context, tx *gorm.DB, messages []*types.Message) ([]*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(messages) == 0 {
		return []*types.Message{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&messages).Error; err != nil {
		return nil, err
	}

	return messages, nil
}

func (mr *messageRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, counterpart *uuid.UUID, limit int) ([]*types.MessageWithNames, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.Message{}).
		Select("messages.*, sender.name AS sender_name, recipient.name AS recipient_name").
		Joins("JOIN users sender ON sender.id = messages.sender_id").
		Joins("JOIN users recipient ON recipient.id = messages.recipient_id")

	if counterpart != nil {
		q = q.Where(
			"(messages.sender_id = ? AND messages.recipient_id = ?) OR (messages.sender_id = ? AND messages.recipient_id = ?)",
			userID, *counterpart, *counterpart, userID,
		)
	} else {
		q = q.Where("messages.sender_id = ? OR messages.recipient_id = ?", userID, userID)
	}

	var results []*types.MessageWithNames
	if err := q.Order("messages.created_at DESC").Limit(limit).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
