package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/educatalog/internal/domain/apperror"
	"github.com/oksasatya/educatalog/internal/domain/entity"
	repo "github.com/oksasatya/educatalog/internal/domain/repository"
	"github.com/oksasatya/educatalog/pkg/helpers"
)

// Token issue methods reported to metrics.
const (
	MethodRegister = "register"
	MethodLogin    = "login"
	MethodOAuth    = "oauth"
)

// LoginResult is returned by every credential exchange.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// AuthService implements the direct credential paths and token issuance.
type AuthService struct {
	Repo  repo.UserRepository
	JWT   *helpers.JWTManager
	Hooks *Hooks
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, hooks *Hooks) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Hooks: hooks}
}

// IssueToken signs a token for u's current identity.
func (s *AuthService) IssueToken(u *entity.User, method string) (*LoginResult, error) {
	token, exp, err := s.JWT.Issue(helpers.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   string(u.Role),
	})
	if err != nil {
		s.Hooks.logger().WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, apperror.Wrap(apperror.ErrInternal, err)
	}
	s.Hooks.metrics().RecordTokenIssued(method)
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Register creates a parent account for email and returns a token.
func (s *AuthService) Register(ctx context.Context, email, name string) (*LoginResult, error) {
	u := entity.NewUser(email, name)
	if _, err := s.Repo.GetByEmail(ctx, u.Email); err == nil {
		return nil, apperror.ErrUserExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// lost the race against a concurrent registration or oauth login
		return nil, apperror.From(err)
	}
	s.Hooks.logger().WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	s.Hooks.created(ctx, u)
	return s.IssueToken(u, MethodRegister)
}

// Login looks the user up by email. There is no password in this system.
func (s *AuthService) Login(ctx context.Context, email string) (*LoginResult, error) {
	u, err := s.Repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, apperror.ErrAccountDisabled
	}
	return s.IssueToken(u, MethodLogin)
}

// Profile returns the stored user for id.
func (s *AuthService) Profile(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.From(err)
	}
	return u, nil
}

// UpdateChildren replaces the children list on the user's own profile.
func (s *AuthService) UpdateChildren(ctx context.Context, id string, children []entity.Child) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.From(err)
	}
	if children == nil {
		children = []entity.Child{}
	}
	u.Children = children
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, apperror.From(err)
	}
	s.Hooks.updated(ctx, u)
	return u, nil
}
