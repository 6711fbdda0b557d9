// Package google is the Google OAuth 2.0 provider client.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleendpoint "golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/oksasatya/educatalog/config"
	"github.com/oksasatya/educatalog/internal/domain/entity"
)

var ErrUnverifiedEmail = errors.New("google account email is not verified")

const exchangeTimeout = 10 * time.Second

// Scopes requested on the consent screen.
var Scopes = []string{"email", "profile"}

// Provider exchanges authorization codes with Google and reads the
// authenticated user's profile.
type Provider struct {
	oauth        *oauth2.Config
	verifiedOnly bool
	apiOpts      []option.ClientOption
	httpClient   *http.Client
}

type Option func(*Provider)

// WithEndpoints points the provider at alternative auth/token/userinfo
// URLs, used against fake servers in tests.
func WithEndpoints(authURL, tokenURL, userInfoBase string) Option {
	return func(p *Provider) {
		p.oauth.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams}
		p.apiOpts = append(p.apiOpts, option.WithEndpoint(userInfoBase))
	}
}

func NewProvider(cfg *config.OAuthConfig, opts ...Option) *Provider {
	p := &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       Scopes,
			Endpoint:     googleendpoint.Endpoint,
		},
		verifiedOnly: cfg.VerifiedOnly,
		httpClient:   &http.Client{Timeout: exchangeTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AuthCodeURL builds the consent-screen URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades code for a token and fetches the user's profile.
func (p *Provider) Exchange(ctx context.Context, code string) (*entity.ExternalProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	opts := append([]option.ClientOption{option.WithTokenSource(p.oauth.TokenSource(ctx, tok))}, p.apiOpts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Id == "" || info.Email == "" {
		return nil, errors.New("userinfo response missing id or email")
	}
	if p.verifiedOnly && (info.VerifiedEmail == nil || !*info.VerifiedEmail) {
		return nil, ErrUnverifiedEmail
	}

	return &entity.ExternalProfile{
		ProviderID:  info.Id,
		Email:       info.Email,
		DisplayName: info.Name,
		PictureURL:  info.Picture,
	}, nil
}
