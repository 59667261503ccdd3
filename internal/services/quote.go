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

type QuoteCreateInput struct {
	ProviderID  uuid.UUID
	CustomerID  uuid.UUID
	Title       string
	Description string
	Amount      float64
}

type QuoteService interface {
	// Create always starts a quote in pending; callers cannot pick a status.
	Create(ctx context.Context, input QuoteCreateInput) (*types.Quote, error)
	// UpdateStatus transitions pending -> accepted|rejected. Accepted and
	// rejected are terminal: re-applying the persisted status is a no-op
	// success, any other transition off a terminal state is a conflict.
	UpdateStatus(ctx context.Context, quoteID uuid.UUID, status string) (*types.Quote, error)
	ListForUser(ctx context.Context, userID uuid.UUID, role string) ([]*types.QuoteWithNames, error)
}

type quoteService struct {
	db        *gorm.DB
	log       *logger.Logger
	quoteRepo repos.QuoteRepo
	userRepo  repos.UserRepo
}

func NewQuoteService(db *gorm.DB, log *logger.Logger, quoteRepo repos.QuoteRepo, userRepo repos.UserRepo) QuoteService {
	serviceLog := log.With("service", "QuoteService")
	return &quoteService{db: db, log: serviceLog, quoteRepo: quoteRepo, userRepo: userRepo}
}

func (qs *quoteService) Create(ctx context.Context, input QuoteCreateInput) (*types.Quote, error) {
	input.Title = normalization.TrimInputString(input.Title)
	input.Description = normalization.TrimInputString(input.Description)

	switch {
	case input.ProviderID == uuid.Nil:
		return nil, apierr.Validation("provider is required")
	case input.CustomerID == uuid.Nil:
		return nil, apierr.Validation("customer is required")
	case input.Title == "":
		return nil, apierr.Validation("title is required")
	case input.Amount <= 0:
		return nil, apierr.Validation("amount must be positive")
	}

	customers, err := qs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{input.CustomerID})
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("load customer: %w", err))
	}
	if len(customers) == 0 {
		return nil, apierr.NotFound("customer not found")
	}

	quote := &types.Quote{
		ID:          uuid.New(),
		ProviderID:  input.ProviderID,
		CustomerID:  input.CustomerID,
		Title:       input.Title,
		Description: input.Description,
		Amount:      input.Amount,
		Status:      types.QuoteStatusPending,
	}
	created, err := qs.quoteRepo.Create(ctx, nil, []*types.Quote{quote})
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("create quote: %w", err))
	}
	return created[0], nil
}

func (qs *quoteService) UpdateStatus(ctx context.Context, quoteID uuid.UUID, status string) (*types.Quote, error) {
	status = normalization.ParseInputString(status)
	if status != types.QuoteStatusAccepted && status != types.QuoteStatusRejected {
		return nil, apierr.Validation("status must be %q or %q", types.QuoteStatusAccepted, types.QuoteStatusRejected)
	}

	var result *types.Quote
	err := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := qs.quoteRepo.GetByIDForUpdate(ctx, tx, quoteID)
		if err != nil {
			return apierr.Storage(fmt.Errorf("load quote: %w", err))
		}
		if quote == nil {
			return apierr.NotFound("quote not found")
		}
		if quote.Status == status {
			result = quote
			return nil
		}
		if types.IsTerminalQuoteStatus(quote.Status) {
			return apierr.Conflict("quote already %s", quote.Status)
		}
		if err := qs.quoteRepo.UpdateStatus(ctx, tx, quoteID, status); err != nil {
			return apierr.Storage(fmt.Errorf("update quote status: %w", err))
		}
		quote.Status = status
		result = quote
		return nil
	})
	if err != nil {
		return nil, apierr.From(err)
	}
	return result, nil
}

func (qs *quoteService) ListForUser(ctx context.Context, userID uuid.UUID, role string) ([]*types.QuoteWithNames, error) {
	if userID == uuid.Nil {
		return nil, apierr.Validation("user is required")
	}
	role = normalization.ParseInputString(role)
	if role != "" && role != "provider" && role != "customer" {
		return nil, apierr.Validation("role must be provider or customer")
	}
	quotes, err := qs.quoteRepo.ListForUser(ctx, nil, userID, role)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("list quotes: %w", err))
	}
	return quotes, nil
}
