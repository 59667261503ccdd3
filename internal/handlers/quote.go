package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/requestdata"
	"github.com/oddjobz/oddjobz-backend/internal/services"
)

type QuoteHandler struct {
	quoteService services.QuoteService
}

func NewQuoteHandler(quoteService services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

func (qh *QuoteHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.Auth("not authenticated"))
		return
	}
	quotes, err := qh.quoteService.ListForUser(c.Request.Context(), rd.UserID, c.Query("role"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, quotes)
}

// Create issues a quote from the authenticated provider to a customer. Any
// client-supplied status is ignored; quotes always start pending.
func (qh *QuoteHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.Auth("not authenticated"))
		return
	}

	var req struct {
		CustomerID  string  `json:"customerId"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		RespondError(c, apierr.Validation("invalid customer id"))
		return
	}

	quote, err := qh.quoteService.Create(c.Request.Context(), services.QuoteCreateInput{
		ProviderID:  rd.UserID,
		CustomerID:  customerID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, quote)
}

func (qh *QuoteHandler) UpdateStatus(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid quote id"))
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	quote, err := qh.quoteService.UpdateStatus(c.Request.Context(), quoteID, req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, quote)
}
