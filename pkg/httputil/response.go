package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// RespondWithSuccess sends a success response. A nil data yields
// {"success": true}.
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError records err on the context for the error middleware and
// sends the error response. Errors that are not AppErrors are reported as
// internal errors without exposing their text.
func RespondWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	statusCode := http.StatusInternalServerError
	body := &Error{Message: "internal server error"}

	if appErr, ok := errors.As(err); ok {
		statusCode = appErr.StatusCode()
		body.Message = appErr.Message
		body.Details = appErr.Details
	}
	body.Code = statusCode

	c.AbortWithStatusJSON(statusCode, Response{
		Success: false,
		Error:   body,
	})
}
