package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		Name        string `json:"name"`
		ServiceType string `json:"serviceType"`
		Area        string `json:"area"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	user, err := ah.authService.RegisterUser(c.Request.Context(), services.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		ServiceType: req.ServiceType,
		Area:        req.Area,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, user)
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	result, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"user":          result.User,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"expires_in":    result.ExpiresIn,
	})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	result, err := ah.authService.RefreshUser(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"expires_in":    result.ExpiresIn,
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "logged out successfully"})
}

// forgotPasswordMessage never varies with account existence.
const forgotPasswordMessage = "If an account exists with this email, you will receive a password reset link."

func (ah *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	if err := ah.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": forgotPasswordMessage})
}

func (ah *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	if err := ah.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Password reset successful"})
}
