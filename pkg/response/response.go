package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/educatalog/internal/domain/apperror"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// ErrorBody is the uniform error envelope.
type ErrorBody struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Details   any       `json:"details,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Success writes payload at the top level of the body next to the
// success flag and message.
func Success(c *gin.Context, status int, message string, payload gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	body := gin.H{
		"success":    true,
		"message":    message,
		"request_id": c.GetString(RequestIDKey),
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail maps err onto the taxonomy, writes the envelope and aborts the
// chain. The original error is attached to the context for the error logger.
func Fail(c *gin.Context, err error) {
	ae := apperror.From(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(ae.Status(), ErrorBody{
		Success:   false,
		Error:     ae.Message,
		Code:      ae.Code(),
		Details:   ae.Details,
		RequestID: c.GetString(RequestIDKey),
		Timestamp: time.Now().UTC(),
	})
}
