package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/educatalog/internal/application"
	"github.com/oksasatya/educatalog/internal/domain/apperror"
	"github.com/oksasatya/educatalog/internal/domain/entity"
	"github.com/oksasatya/educatalog/pkg/response"
	"github.com/oksasatya/educatalog/pkg/validation"
)

// userView is the public projection of a user. The provider id stays
// server side.
type userView struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	ProfilePicture string         `json:"profilePicture"`
	Role           entity.Role    `json:"role"`
	Children       []entity.Child `json:"children"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func toView(u *entity.User) userView {
	children := u.Children
	if children == nil {
		children = []entity.Child{}
	}
	return userView{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		Children:       children,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toViews(users []*entity.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toView(u))
	}
	return out
}

func loginPayload(res *application.LoginResult) gin.H {
	return gin.H{
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      toView(res.User),
	}
}

func invalidPayload(c *gin.Context, err error) {
	response.Fail(c, apperror.WithDetails(apperror.ErrValidation, validation.ToDetails(err)))
}

type childRequest struct {
	Name      string   `json:"name" binding:"required"`
	Age       int      `json:"age"`
	Interests []string `json:"interests"`
}

func toChildren(in []childRequest) []entity.Child {
	out := make([]entity.Child, 0, len(in))
	for _, ch := range in {
		interests := ch.Interests
		if interests == nil {
			interests = []string{}
		}
		out = append(out, entity.Child{Name: ch.Name, Age: ch.Age, Interests: interests})
	}
	return out
}
