package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError is the single place a service error becomes a transport
// status. Untyped errors surface as 500 STORAGE.
func RespondError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.Storage(nil)
	}
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: ae.Error(),
			Code:    ae.Code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
