package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/handlers"
	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/requestdata"
	"github.com/oddjobz/oddjobz-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		log:         log.With("middleware", "AuthMiddleware"),
		authService: authService,
	}
}

// RequireAuth validates the bearer access token, verifies the session row
// still exists, and attaches the caller's identity to the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			handlers.RespondError(c, apierr.Auth("missing bearer token"))
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if tokenString == "" {
			handlers.RespondError(c, apierr.Auth("missing bearer token"))
			c.Abort()
			return
		}

		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			handlers.RespondError(c, err)
			c.Abort()
			return
		}
		if requestdata.GetRequestData(ctx) == nil {
			handlers.RespondError(c, apierr.Auth("invalid token"))
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
