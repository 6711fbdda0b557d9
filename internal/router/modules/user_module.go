package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/educatalog/internal/domain/entity"
	handlers "github.com/oksasatya/educatalog/internal/interface/http"
	"github.com/oksasatya/educatalog/internal/interface/middleware"
)

// UserModule mounts user administration under /users. Every route needs
// a token; listing, search and deactivation need the admin role, while a
// user may read and edit their own record.
type UserModule struct {
	Handler *handlers.UserHandler
	Authn   *middleware.Authenticator
	RDB     *redis.Client
	Rejects middleware.RejectionRecorder
}

func NewUserModule(h *handlers.UserHandler, authn *middleware.Authenticator, rdb *redis.Client, rejects middleware.RejectionRecorder) *UserModule {
	return &UserModule{Handler: h, Authn: authn, RDB: rdb, Rejects: rejects}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	adminOnly := middleware.RequireRole(entity.RoleAdmin, m.Rejects)
	selfOrAdmin := middleware.RequireSelfOrRole("id", entity.RoleAdmin, m.Rejects)

	users := rg.Group("/users")
	users.Use(
		m.Authn.Handler(),
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		users.GET("", adminOnly, m.Handler.List)
		users.GET("/search", adminOnly, m.Handler.Search)
		users.GET("/:id", selfOrAdmin, m.Handler.Get)
		users.PUT("/:id", selfOrAdmin, m.Handler.Update)
		users.POST("/:id/avatar", selfOrAdmin, m.Handler.Avatar)
		users.DELETE("/:id", adminOnly, m.Handler.Deactivate)
	}
}
