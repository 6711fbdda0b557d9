package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/educatalog/internal/application"
	"github.com/oksasatya/educatalog/internal/container"
	"github.com/oksasatya/educatalog/internal/infrastructure/google"
	"github.com/oksasatya/educatalog/internal/infrastructure/search"
	handlers "github.com/oksasatya/educatalog/internal/interface/http"
	"github.com/oksasatya/educatalog/internal/interface/middleware"
	"github.com/oksasatya/educatalog/internal/router/modules"
	"github.com/oksasatya/educatalog/pkg/helpers"
	"github.com/oksasatya/educatalog/pkg/mailer"
	"github.com/oksasatya/educatalog/pkg/mailer/templates"
)

// Deps is everything the HTTP modules need. Optional collaborators may be
// nil: a nil RDB disables rate limiting and a nil Gatherer hides /metrics.
type Deps struct {
	Auth         *application.AuthService
	Users        *application.UserService
	Flow         *application.OAuthFlow
	Authn        *middleware.Authenticator
	Rejects      middleware.RejectionRecorder
	RDB          *redis.Client
	Gatherer     prometheus.Gatherer
	DebugEnabled bool
	Logger       *logrus.Logger
}

// Mount adds every module to r.
func Mount(r *Registry, d *Deps) {
	r.Add(modules.NewDebugModule(d.RDB, d.Gatherer, d.DebugEnabled))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(d.Auth, d.Flow, d.Logger), d.Authn, d.RDB))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Users, d.Logger), d.Authn, d.RDB, d.Rejects))
}

// buildDeps wires the application services from the container singletons.
func buildDeps() *Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	users := container.GetUserRepo()
	jwt := container.GetJWT()

	hooks := &application.Hooks{Logger: logger}
	if c := container.GetMetrics(); c != nil {
		hooks.Metrics = c
	}
	if es := container.GetES(); es != nil {
		hooks.Indexer = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		hooks.Notifier = mailer.NewWelcomeNotifier(pub, templates.Brand{
			CompanyName: cfg.CompanyName,
			SupportURL:  cfg.SupportURL,
			LoginURL:    cfg.LoginURL,
		})
	}

	var avatars application.AvatarStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		avatars = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
	}

	auth := application.NewAuthService(users, jwt, hooks)
	fed := application.NewFederator(users, hooks)
	state := helpers.NewStateSigner(cfg.OAuth.StateSecret, cfg.OAuth.StateTTL)
	flow := application.NewOAuthFlow(google.NewProvider(&cfg.OAuth), state, fed, auth, logger)

	d := &Deps{
		Auth:         auth,
		Users:        application.NewUserService(users, avatars, hooks),
		Flow:         flow,
		RDB:          container.GetRedis(),
		DebugEnabled: cfg.DebugMetricsEnabled,
		Logger:       logger,
	}
	var rejects middleware.RejectionRecorder
	if c := container.GetMetrics(); c != nil {
		rejects = c
		d.Gatherer = container.GetPromRegistry()
	}
	d.Rejects = rejects
	d.Authn = middleware.NewAuthenticator(jwt, users, rejects)
	return d
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	Mount(r, buildDeps())
}
