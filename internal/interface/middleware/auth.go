package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/educatalog/internal/domain/apperror"
	"github.com/oksasatya/educatalog/internal/domain/entity"
	"github.com/oksasatya/educatalog/internal/domain/repository"
	"github.com/oksasatya/educatalog/pkg/helpers"
	"github.com/oksasatya/educatalog/pkg/response"
)

// UserLoader is the slice of the identity store the middleware needs.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// RejectionRecorder counts requests refused by a gate.
type RejectionRecorder interface {
	RecordRejection(code string)
}

// Authenticator verifies the bearer token and re-reads the user on every
// request. The fresh read is what makes deactivation take effect for
// tokens issued before it.
type Authenticator struct {
	JWT     *helpers.JWTManager
	Users   UserLoader
	Metrics RejectionRecorder
}

func NewAuthenticator(jwt *helpers.JWTManager, users UserLoader, rec RejectionRecorder) *Authenticator {
	return &Authenticator{JWT: jwt, Users: users, Metrics: rec}
}

// Identify resolves a raw bearer token to the current identity.
func (a *Authenticator) Identify(ctx context.Context, token string) (entity.Identity, error) {
	claims, err := a.JWT.Verify(token)
	if err != nil {
		return entity.Identity{}, apperror.From(err)
	}
	u, err := a.Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
		return entity.Identity{}, apperror.Wrap(apperror.ErrUserNotFound, err)
	}
	if err != nil {
		return entity.Identity{}, apperror.Wrap(apperror.ErrInternal, err)
	}
	if !u.IsActive {
		return entity.Identity{}, apperror.ErrAccountDisabled
	}
	return u.Identity(), nil
}

// Handler is the gin middleware. On failure it writes the error envelope
// and aborts; handlers behind it never run.
func (a *Authenticator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			a.reject(c, apperror.ErrTokenRequired)
			return
		}
		id, err := a.Identify(c.Request.Context(), token)
		if err != nil {
			a.reject(c, err)
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

func (a *Authenticator) reject(c *gin.Context, err error) {
	if a.Metrics != nil {
		a.Metrics.RecordRejection(apperror.From(err).Code())
	}
	response.Fail(c, err)
}
