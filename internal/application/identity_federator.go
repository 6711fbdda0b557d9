package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/educatalog/internal/domain/apperror"
	"github.com/oksasatya/educatalog/internal/domain/entity"
	repo "github.com/oksasatya/educatalog/internal/domain/repository"
)

const defaultFederationAttempts = 3

// Federation outcomes reported to metrics.
const (
	FederationCreated   = "created"
	FederationLinked    = "linked"
	FederationUnchanged = "unchanged"
	FederationRetried   = "conflict_retry"
)

// Federator resolves an external OAuth profile to exactly one local user.
// Concurrent first logins for the same identity race on the store's unique
// indexes; the loser re-reads and takes the update path.
type Federator struct {
	Repo        repo.UserRepository
	Hooks       *Hooks
	MaxAttempts int
}

func NewFederator(r repo.UserRepository, hooks *Hooks) *Federator {
	return &Federator{Repo: r, Hooks: hooks, MaxAttempts: defaultFederationAttempts}
}

// Federate finds the user by email or provider id, creating it when absent.
// An existing user gets the provider id linked and the provider's picture;
// role, active flag and children are never touched.
func (f *Federator) Federate(ctx context.Context, p entity.ExternalProfile) (*entity.User, error) {
	p.Email = entity.NormalizeEmail(p.Email)
	p.ProviderID = strings.TrimSpace(p.ProviderID)
	if p.Email == "" || p.ProviderID == "" {
		return nil, apperror.WithDetails(apperror.ErrValidation, []string{"provider profile must carry an email and an id"})
	}

	attempts := f.MaxAttempts
	if attempts <= 0 {
		attempts = defaultFederationAttempts
	}
	log := f.Hooks.logger().WithFields(logrus.Fields{"provider_id": p.ProviderID, "email": p.Email})

	var lastErr error
	for i := 0; i < attempts; i++ {
		u, outcome, err := f.upsert(ctx, p)
		if err == nil {
			f.Hooks.metrics().RecordFederation(outcome)
			switch outcome {
			case FederationCreated:
				log.WithField("user_id", u.ID).Info("user created via oauth")
				f.Hooks.created(ctx, u)
			case FederationLinked:
				log.WithField("user_id", u.ID).Info("existing user updated via oauth")
				f.Hooks.updated(ctx, u)
			}
			return u, nil
		}
		if !repo.IsConflict(err) {
			return nil, err
		}
		lastErr = err
		f.Hooks.metrics().RecordFederation(FederationRetried)
		log.WithError(err).WithField("attempt", i+1).Debug("federation lost a uniqueness race, retrying lookup")
	}
	return nil, apperror.Wrap(apperror.ErrIdentityConflict, lastErr)
}

func (f *Federator) upsert(ctx context.Context, p entity.ExternalProfile) (*entity.User, string, error) {
	u, err := f.Repo.FindByEmailOrProvider(ctx, p.Email, p.ProviderID)
	if errors.Is(err, repo.ErrNotFound) {
		nu := entity.NewUser(p.Email, p.DisplayName)
		nu.ProviderID = p.ProviderID
		nu.ProfilePicture = p.PictureURL
		if err := f.Repo.Create(ctx, nu); err != nil {
			return nil, "", err
		}
		return nu, FederationCreated, nil
	}
	if err != nil {
		return nil, "", err
	}

	changed := false
	if u.ProviderID != p.ProviderID {
		u.ProviderID = p.ProviderID
		changed = true
	}
	if p.PictureURL != "" && u.ProfilePicture != p.PictureURL {
		u.ProfilePicture = p.PictureURL
		changed = true
	}
	if !changed {
		return u, FederationUnchanged, nil
	}
	if err := f.Repo.Update(ctx, u); err != nil {
		return nil, "", err
	}
	return u, FederationLinked, nil
}
