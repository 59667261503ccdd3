package app

import (
	"gorm.io/gorm"

	"github.com/oddjobz/oddjobz-backend/internal/clients/resend"
	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	User    services.UserService
	Message services.MessageService
	Quote   services.QuoteService
	Review  services.ReviewService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")

	// Mail is optional at startup. Without it, forgot-password surfaces a
	// dependency error instead of sending.
	mailClient, err := resend.NewFromEnv(log)
	if err != nil {
		log.Warn("Resend client unavailable, password reset emails disabled", "error", err.Error())
		mailClient = nil
	}

	return Services{
		Auth: services.NewAuthService(
			db, log,
			reposet.User, reposet.UserToken,
			mailClient,
			cfg.JWTSecretKey,
			cfg.AccessTokenTTL,
			cfg.RefreshTokenTTL,
			cfg.ResetTokenTTL,
			cfg.BaseURL,
		),
		User:    services.NewUserService(db, log, reposet.User),
		Message: services.NewMessageService(db, log, reposet.Message, reposet.User),
		Quote:   services.NewQuoteService(db, log, reposet.Quote, reposet.User),
		Review:  services.NewReviewService(db, log, reposet.Review, reposet.User),
	}
}
