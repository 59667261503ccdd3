package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/requestdata"
	"github.com/oddjobz/oddjobz-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) ListDirectory(c *gin.Context) {
	users, err := uh.userService.ListDirectory(
		c.Request.Context(),
		c.Query("serviceType"),
		c.Query("area"),
	)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, users)
}

func (uh *UserHandler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	user, err := uh.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}

// UpdateProfile lets users edit their own profile only. Identity and
// aggregate fields are not writable here.
func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.Auth("not authenticated"))
		return
	}
	if rd.UserID != userID {
		RespondError(c, apierr.Auth("cannot edit another user's profile"))
		return
	}

	var req struct {
		Bio             string  `json:"bio"`
		Phone           string  `json:"phone"`
		HourlyRate      float64 `json:"hourlyRate"`
		ProfileImageURL string  `json:"profileImageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	user, err := uh.userService.UpdateProfile(c.Request.Context(), userID, services.ProfileUpdateInput{
		Bio:             req.Bio,
		Phone:           req.Phone,
		HourlyRate:      req.HourlyRate,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}
