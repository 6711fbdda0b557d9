package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/educatalog/internal/domain/apperror"
	"github.com/oksasatya/educatalog/internal/domain/entity"
	"github.com/oksasatya/educatalog/pkg/response"
)

// CheckRole fails unless the identity has role.
func CheckRole(id entity.Identity, role entity.Role) error {
	if id.HasRole(role) {
		return nil
	}
	return apperror.WithRole(string(role))
}

// CheckSelfOrRole passes when the identity owns the resource or has role.
func CheckSelfOrRole(id entity.Identity, resourceOwnerID string, role entity.Role) error {
	if id.Owns(resourceOwnerID) || id.HasRole(role) {
		return nil
	}
	return apperror.ErrForbidden
}

// RequireRole gates a route on the caller's role. Must be chained after
// Authenticator.Handler.
func RequireRole(role entity.Role, rec RejectionRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Fail(c, apperror.ErrTokenRequired)
			return
		}
		if err := CheckRole(id, role); err != nil {
			recordRejection(rec, err)
			response.Fail(c, err)
			return
		}
		c.Next()
	}
}

// RequireSelfOrRole lets a user act on the resource named by the param
// route parameter when it is their own id, or when they have role.
func RequireSelfOrRole(param string, role entity.Role, rec RejectionRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Fail(c, apperror.ErrTokenRequired)
			return
		}
		if err := CheckSelfOrRole(id, c.Param(param), role); err != nil {
			recordRejection(rec, err)
			response.Fail(c, err)
			return
		}
		c.Next()
	}
}

func recordRejection(rec RejectionRecorder, err error) {
	if rec != nil {
		rec.RecordRejection(apperror.From(err).Code())
	}
}
