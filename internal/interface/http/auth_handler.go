package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/educatalog/internal/application"
	"github.com/oksasatya/educatalog/internal/domain/apperror"
	"github.com/oksasatya/educatalog/internal/interface/middleware"
	"github.com/oksasatya/educatalog/pkg/response"
)

type AuthHandler struct {
	Auth   *application.AuthService
	Flow   *application.OAuthFlow
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, flow *application.OAuthFlow, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Flow: flow, Logger: logger}
}

type registerRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,max=120"`
}

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type childrenRequest struct {
	Children []childRequest `json:"children" binding:"required,dive"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "registered", loginPayload(res))
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "login successful", loginPayload(res))
}

// GoogleRedirect GET /auth/google
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	url, err := h.Flow.Initiate(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback GET /auth/google/callback?code=&state=
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	// the provider reports a denied consent as ?error=access_denied
	if e := c.Query("error"); e != "" {
		response.Fail(c, apperror.WithDetails(apperror.ErrUpstreamProvider, []string{e}))
		return
	}
	res, err := h.Flow.Callback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "login successful", loginPayload(res))
}

// Verify GET /auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	u, err := h.Auth.Profile(c.Request.Context(), id.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "token valid", gin.H{"valid": true, "user": toView(u)})
}

// Logout POST /auth/logout. Tokens are stateless; the client discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	h.Logger.WithField("user_id", id.ID).Info("user logged out")
	response.Success(c, http.StatusOK, "logged out", nil)
}

// Profile GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	u, err := h.Auth.Profile(c.Request.Context(), id.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "profile", gin.H{"user": toView(u)})
}

// UpdateChildren PUT /auth/profile/children
func (h *AuthHandler) UpdateChildren(c *gin.Context) {
	var req childrenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	id, _ := middleware.IdentityFrom(c)
	u, err := h.Auth.UpdateChildren(c.Request.Context(), id.ID, toChildren(req.Children))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "children updated", gin.H{"user": toView(u)})
}
