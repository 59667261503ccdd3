package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oddjobz/oddjobz-backend/internal/handlers"
	"github.com/oddjobz/oddjobz-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	MessageHandler *handlers.MessageHandler
	QuoteHandler   *handlers.QuoteHandler
	ReviewHandler  *handlers.ReviewHandler
	AuthMiddleware *middleware.AuthMiddleware
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", cfg.AuthHandler.Register)
			auth.POST("/login", cfg.AuthHandler.Login)
			auth.POST("/forgot-password", cfg.AuthHandler.ForgotPassword)
			auth.POST("/reset-password", cfg.AuthHandler.ResetPassword)
		}

		api.GET("/users", cfg.UserHandler.ListDirectory)
		api.GET("/users/:id", cfg.UserHandler.GetByID)
		api.GET("/reviews", cfg.ReviewHandler.ListByProvider)

		protected := api.Group("")
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		{
			protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)

			protected.PUT("/users/:id", cfg.UserHandler.UpdateProfile)

			protected.GET("/messages", cfg.MessageHandler.List)
			protected.POST("/messages", cfg.MessageHandler.Send)

			protected.GET("/quotes", cfg.QuoteHandler.List)
			protected.POST("/quotes", cfg.QuoteHandler.Create)
			protected.PUT("/quotes/:id", cfg.QuoteHandler.UpdateStatus)

			protected.POST("/reviews", cfg.ReviewHandler.Create)
		}
	}

	return router
}
