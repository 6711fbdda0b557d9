package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/educatalog/internal/application"
	"github.com/oksasatya/educatalog/internal/domain/apperror"
	"github.com/oksasatya/educatalog/internal/domain/entity"
	repo "github.com/oksasatya/educatalog/internal/domain/repository"
	"github.com/oksasatya/educatalog/pkg/response"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type listQuery struct {
	Page  int    `form:"page" binding:"omitempty,min=1"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Role  string `form:"role" binding:"omitempty,role"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"omitempty,min=1,max=100"`
}

type updateUserRequest struct {
	Name           *string        `json:"name" binding:"omitempty,min=1,max=120"`
	ProfilePicture *string        `json:"profilePicture" binding:"omitempty,url"`
	Children       []childRequest `json:"children" binding:"omitempty,dive"`
}

// List GET /users?page=&limit=&role=
func (h *UserHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	page, err := h.Svc.List(c.Request.Context(), repo.ListFilter{Role: entity.Role(q.Role), Page: q.Page, Limit: q.Limit})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "users", gin.H{
		"users": toViews(page.Users),
		"pagination": gin.H{
			"page":       page.Page,
			"total":      page.Total,
			"totalPages": page.TotalPages,
		},
	})
}

// Search GET /users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	if q.Size == 0 {
		q.Size = 10
	}
	res, err := h.Svc.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "search results", gin.H{"users": res})
}

// Get GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "user", gin.H{"user": toView(u)})
}

// Update PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	in := application.UpdateInput{Name: req.Name, ProfilePicture: req.ProfilePicture}
	if req.Children != nil {
		in.Children = toChildren(req.Children)
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "user updated", gin.H{"user": toView(u)})
}

// Avatar POST /users/:id/avatar (multipart field "avatar")
func (h *UserHandler) Avatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Fail(c, apperror.WithDetails(apperror.ErrValidation, []string{"avatar file is required"}))
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Fail(c, apperror.WithDetails(apperror.ErrValidation, []string{"avatar must be at most 5MB"}))
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Fail(c, apperror.WithDetails(apperror.ErrValidation, []string{"avatar must be an image"}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, apperror.Wrap(apperror.ErrInternal, err))
		return
	}
	defer f.Close()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), c.Param("id"), f, fh.Filename, contentType)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "avatar updated", gin.H{"user": toView(u)})
}

// Deactivate DELETE /users/:id
func (h *UserHandler) Deactivate(c *gin.Context) {
	u, err := h.Svc.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "user deactivated", gin.H{"user": toView(u)})
}
