package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/educatalog/pkg/helpers"
	"github.com/oksasatya/educatalog/pkg/response"
)

// AccessLog logs one line per request. When verbose is false only 5xx
// responses are logged, together with the errors attached by handlers.
func AccessLog(logger *logrus.Logger, verbose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id": c.GetString(response.RequestIDKey),
			"method":     c.Request.Method,
			"path":       normalizePath(c),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         ipFromCtx(c),
		}
		if id, ok := IdentityFrom(c); ok {
			fields["user_id"] = id.ID
		}

		if status >= http.StatusInternalServerError {
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			helpers.LogError(logger, "request failed", err, fields)
			return
		}
		if verbose {
			logger.WithFields(fields).Info("request")
		}
	}
}
