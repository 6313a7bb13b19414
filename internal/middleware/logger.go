package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/pkg/logger"
)

const maxLoggedBody = 2048

// Logger returns a middleware that logs HTTP requests. Request bodies are
// logged for writes, except under /auth where they carry passwords.
func Logger(log *logger.Logger) gin.HandlerFunc {
	log = log.With("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		method := c.Request.Method

		var requestBody []byte
		if method != "GET" && c.Request.Body != nil && !strings.Contains(path, "/auth/") {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		statusCode := c.Writer.Status()
		if raw != "" {
			path = path + "?" + raw
		}

		fields := []interface{}{
			"request_id", c.GetString(ContextRequestID),
			"client_ip", c.ClientIP(),
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", time.Since(start),
			"user_agent", c.Request.UserAgent(),
		}
		if len(requestBody) > 0 {
			if len(requestBody) > maxLoggedBody {
				requestBody = requestBody[:maxLoggedBody]
			}
			fields = append(fields, "request", string(requestBody))
		}
		if session := SessionFrom(c); session != nil && session.User != nil {
			fields = append(fields, "user_id", session.User.ID.String())
		}

		switch {
		case statusCode >= 500:
			log.Warn("server error", fields...)
		case statusCode >= 400:
			log.Info("client error", fields...)
		default:
			log.Info("request processed", fields...)
		}
	}
}
