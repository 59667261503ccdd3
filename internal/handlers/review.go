package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/requestdata"
	"github.com/oddjobz/oddjobz-backend/internal/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (rh *ReviewHandler) ListByProvider(c *gin.Context) {
	providerID, err := uuid.Parse(c.Query("providerId"))
	if err != nil {
		RespondError(c, apierr.Validation("providerId is required"))
		return
	}
	reviews, err := rh.reviewService.ListByProvider(c.Request.Context(), providerID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, reviews)
}

func (rh *ReviewHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.Auth("not authenticated"))
		return
	}

	var req struct {
		ProviderID string `json:"providerId"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		RespondError(c, apierr.Validation("invalid provider id"))
		return
	}

	review, err := rh.reviewService.CreateReview(c.Request.Context(), services.ReviewCreateInput{
		ProviderID: providerID,
		CustomerID: rd.UserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, review)
}
