package app

import (
	"github.com/gin-gonic/gin"

	"github.com/oddjobz/oddjobz-backend/internal/handlers"
	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/middleware"
	"github.com/oddjobz/oddjobz-backend/internal/server"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Message *handlers.MessageHandler
	Quote   *handlers.QuoteHandler
	Review  *handlers.ReviewHandler
}

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:    handlers.NewAuthHandler(serviceset.Auth),
		User:    handlers.NewUserHandler(serviceset.User),
		Message: handlers.NewMessageHandler(serviceset.Message),
		Quote:   handlers.NewQuoteHandler(serviceset.Quote),
		Review:  handlers.NewReviewHandler(serviceset.Review),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, serviceset.Auth),
	}
}

func wireRouter(cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:    handlerset.Auth,
		UserHandler:    handlerset.User,
		MessageHandler: handlerset.Message,
		QuoteHandler:   handlerset.Quote,
		ReviewHandler:  handlerset.Review,
		AuthMiddleware: mw.Auth,
		AllowedOrigins: cfg.AllowedOrigins,
	})
}
