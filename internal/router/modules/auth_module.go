package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/educatalog/internal/interface/http"
	"github.com/oksasatya/educatalog/internal/interface/middleware"
)

// AuthModule mounts the credential exchange routes under /auth.
// Public: register, login, google, google/callback
// Protected: verify, logout, profile, profile/children
type AuthModule struct {
	Handler *handlers.AuthHandler
	Authn   *middleware.Authenticator
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, authn *middleware.Authenticator, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Authn: authn, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIP(), nil)
	oauthLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.GET("/google", oauthLimiter, m.Handler.GoogleRedirect)
	auth.GET("/google/callback", oauthLimiter, m.Handler.GoogleCallback)

	protected := auth.Group("")
	protected.Use(
		m.Authn.Handler(),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		protected.GET("/verify", m.Handler.Verify)
		protected.POST("/logout", m.Handler.Logout)
		protected.GET("/profile", m.Handler.Profile)
		protected.PUT("/profile/children", m.Handler.UpdateChildren)
	}
}
