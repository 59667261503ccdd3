package app

import (
	"gorm.io/gorm"

	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/repos"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Message   repos.MessageRepo
	Quote     repos.QuoteRepo
	Review    repos.ReviewRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Message:   repos.NewMessageRepo(db, log),
		Quote:     repos.NewQuoteRepo(db, log),
		Review:    repos.NewReviewRepo(db, log),
	}
}
