package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/requestdata"
	"github.com/oddjobz/oddjobz-backend/internal/services"
)

type MessageHandler struct {
	messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (mh *MessageHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.Auth("not authenticated"))
		return
	}

	var counterpart *uuid.UUID
	if raw := c.Query("conversationWith"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, apierr.Validation("invalid conversationWith id"))
			return
		}
		counterpart = &parsed
	}

	messages, err := mh.messageService.ListForUser(c.Request.Context(), rd.UserID, counterpart)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, messages)
}

func (mh *MessageHandler) Send(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.Auth("not authenticated"))
		return
	}

	var req struct {
		RecipientID string `json:"recipientId"`
		Content     string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		RespondError(c, apierr.Validation("invalid recipient id"))
		return
	}

	message, err := mh.messageService.Send(c.Request.Context(), rd.UserID, recipientID, req.Content)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, message)
}
