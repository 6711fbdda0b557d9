package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/educatalog/internal/domain/apperror"
	"github.com/oksasatya/educatalog/pkg/helpers"
)

// OAuthFlow runs the two-phase, session-free provider login. The only
// continuation state between the phases is the signed state parameter that
// travels through the provider's redirect.
type OAuthFlow struct {
	Provider  ProviderClient
	State     *helpers.StateSigner
	Federator *Federator
	Auth      *AuthService
	Logger    *logrus.Logger
}

func NewOAuthFlow(provider ProviderClient, state *helpers.StateSigner, fed *Federator, auth *AuthService, logger *logrus.Logger) *OAuthFlow {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &OAuthFlow{Provider: provider, State: state, Federator: fed, Auth: auth, Logger: logger}
}

// Initiate returns the provider URL the client should be redirected to.
func (o *OAuthFlow) Initiate(_ context.Context) (string, error) {
	state, err := o.State.Sign()
	if err != nil {
		return "", apperror.Wrap(apperror.ErrInternal, err)
	}
	return o.Provider.AuthCodeURL(state), nil
}

// Callback validates state, exchanges code with the provider, federates
// the profile and issues a token. Provider failures are terminal.
func (o *OAuthFlow) Callback(ctx context.Context, code, state string) (*LoginResult, error) {
	if err := o.State.Check(state); err != nil {
		return nil, apperror.Wrap(apperror.ErrInvalidState, err)
	}
	if code == "" {
		return nil, apperror.WithDetails(apperror.ErrUpstreamProvider, []string{"missing authorization code"})
	}

	profile, err := o.Provider.Exchange(ctx, code)
	if err != nil {
		o.Logger.WithError(err).Error("oauth provider exchange failed")
		return nil, apperror.Wrap(apperror.ErrUpstreamProvider, err)
	}

	u, err := o.Federator.Federate(ctx, *profile)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, apperror.ErrAccountDisabled
	}
	o.Logger.WithField("user_id", u.ID).Info("oauth login succeeded")
	return o.Auth.IssueToken(u, MethodOAuth)
}
