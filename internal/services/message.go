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

// messageListLimit caps conversation listings; older messages fall off.
const messageListLimit = 100

type MessageService interface {
	Send(ctx context.Context, senderID, recipientID uuid.UUID, content string) (*types.Message, error)
	ListForUser(ctx context.Context, userID uuid.UUID, counterpart *uuid.UUID) ([]*types.MessageWithNames, error)
}

type messageService struct {
	db          *gorm.DB
	log         *logger.Logger
	messageRepo repos.MessageRepo
	userRepo    repos.UserRepo
}

func NewMessageService(db *gorm.DB, log *logger.Logger, messageRepo repos.MessageRepo, userRepo repos.UserRepo) MessageService {
	serviceLog := log.With("service", "MessageService")
	return &messageService{db: db, log: serviceLog, messageRepo: messageRepo, userRepo: userRepo}
}

func (ms *messageService) Send(ctx context.Context, senderID, recipientID uuid.UUID, content string) (*types.Message, error) {
	content = normalization.TrimInputString(content)
	switch {
	case senderID == uuid.Nil:
		return nil, apierr.Validation("sender is required")
	case recipientID == uuid.Nil:
		return nil, apierr.Validation("recipient is required")
	case content == "":
		return nil, apierr.Validation("content is required")
	}

	recipients, err := ms.userRepo.GetByIDs(ctx, nil, []uuid.UUID{recipientID})
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("load recipient: %w", err))
	}
	if len(recipients) == 0 {
		return nil, apierr.NotFound("recipient not found")
	}

	message := &types.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}
	created, err := ms.messageRepo.Create(ctx, nil, []*types.Message{message})
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("create message: %w", err))
	}
	return created[0], nil
}

func (ms *messageService) ListForUser(ctx context.Context, userID uuid.UUID, counterpart *uuid.UUID) ([]*types.MessageWithNames, error) {
	if userID == uuid.Nil {
		return nil, apierr.Validation("user is required")
	}
	messages, err := ms.messageRepo.ListForUser(ctx, nil, userID, counterpart, messageListLimit)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("list messages: %w", err))
	}
	return messages, nil
}
