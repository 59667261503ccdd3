package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

type QuoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quotes []*types.Quote) ([]*types.Quote, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) ([]*types.Quote, error)
	// GetByIDForUpdate locks the quote row so status transitions serialize.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID) (*types.Quote, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID, status string) error
	// ListForUser returns quotes where the user is the provider, the customer,
	// or either when role is empty. Newest-first.
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, role string) ([]*types.QuoteWithNames, error)
}

type quoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteRepo {
	repoLog := baseLog.With("repo", "QuoteRepo")
	return &quoteRepo{db: db, log: repoLog}
}

func (qr *quoteRepo) Create(ctx context.Context, tx *gorm.DB, quotes []*types.Quote) ([]*types.Quote, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	if len(quotes) == 0 {
		return []*types.Quote{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&quotes).Error; err != nil {
		return nil, err
	}

	return quotes, nil
}

func (qr *quoteRepo) GetByIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) ([]*types.Quote, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var results []*types.Quote
	if len(quoteIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", quoteIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *quoteRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID) (*types.Quote, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var results []*types.Quote
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", quoteID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (qr *quoteRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Quote{}).
		Where("id = ?", quoteID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": gorm.Expr("now()"),
		}).Error
}

func (qr *quoteRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, role string) ([]*types.QuoteWithNames, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.Quote{}).
		Select("quotes.*, provider.name AS provider_name, customer.name AS customer_name").
		Joins("JOIN users provider ON provider.id = quotes.provider_id").
		Joins("JOIN users customer ON customer.id = quotes.customer_id")

	switch role {
	case "provider":
		q = q.Where("quotes.provider_id = ?", userID)
	case "customer":
		q = q.Where("quotes.customer_id = ?", userID)
	default:
		q = q.Where("quotes.provider_id = ? OR quotes.customer_id = ?", userID, userID)
	}

	var results []*types.QuoteWithNames
	if err := q.Order("quotes.created_at DESC").Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
