package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/httputil"
	"github.com/jwalitptl/clinic-api/pkg/logger"
)

// ErrorHandler logs the errors handlers attached to the context and answers
// for handlers that recorded an error without writing a response.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	log = log.With("http")
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			appErr, ok := errors.As(e.Err)
			if ok && appErr.StatusCode() < 500 {
				log.Debug("request rejected",
					"request_id", requestID,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"error", e.Err.Error(),
				)
				continue
			}
			log.Error(e.Err, "request error",
				"request_id", requestID,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"client_ip", c.ClientIP(),
			)
		}

		if !c.Writer.Written() {
			httputil.RespondWithError(c, c.Errors.Last().Err)
		}
	}
}
