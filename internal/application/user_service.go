package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/educatalog/internal/domain/apperror"
	"github.com/oksasatya/educatalog/internal/domain/entity"
	repo "github.com/oksasatya/educatalog/internal/domain/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// UserService backs the user administration routes. Authorization is
// decided by the route gates before any method here runs.
type UserService struct {
	Repo    repo.UserRepository
	Avatars AvatarStore
	Hooks   *Hooks
}

func NewUserService(r repo.UserRepository, avatars AvatarStore, hooks *Hooks) *UserService {
	return &UserService{Repo: r, Avatars: avatars, Hooks: hooks}
}

// Page is one page of users.
type Page struct {
	Users      []*entity.User
	Total      int
	Page       int
	TotalPages int
}

// List returns users newest first, optionally filtered by role.
func (s *UserService) List(ctx context.Context, f repo.ListFilter) (*Page, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Role != "" && !f.Role.Valid() {
		return nil, apperror.WithDetails(apperror.ErrValidation, map[string]string{"role": "must be one of: parent, admin"})
	}
	users, total, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, apperror.From(err)
	}
	return &Page{
		Users:      users,
		Total:      total,
		Page:       f.Page,
		TotalPages: (total + f.Limit - 1) / f.Limit,
	}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.From(err)
	}
	return u, nil
}

// UpdateInput carries the profile fields a user may change. Nil fields are
// left as they are. Role and active status are not editable here.
type UpdateInput struct {
	Name           *string
	ProfilePicture *string
	Children       []entity.Child
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.From(err)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.ProfilePicture != nil {
		u.ProfilePicture = *in.ProfilePicture
	}
	if in.Children != nil {
		u.Children = in.Children
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, apperror.From(err)
	}
	s.Hooks.updated(ctx, u)
	return u, nil
}

// Deactivate soft-deletes a user. Every token already issued to the user
// stops working on its next request.
func (s *UserService) Deactivate(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.SetActive(ctx, id, false)
	if err != nil {
		return nil, apperror.From(err)
	}
	s.Hooks.logger().WithField("user_id", id).Info("user deactivated")
	s.Hooks.updated(ctx, u)
	return u, nil
}

// Search runs a free-text query over the user index.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Hooks == nil || s.Hooks.Indexer == nil {
		return []map[string]any{}, nil
	}
	res, err := s.Hooks.Indexer.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrInternal, err)
	}
	return res, nil
}

var errAvatarsDisabled = errors.New("avatar storage not configured")

// UploadAvatar stores an image and makes it the user's profile picture.
func (s *UserService) UploadAvatar(ctx context.Context, id string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, apperror.Wrap(apperror.ErrInternal, errAvatarsDisabled)
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.From(err)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", u.ID, uuid.NewString()+ext))
	url, err := s.Avatars.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrInternal, err)
	}
	u.ProfilePicture = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, apperror.From(err)
	}
	s.Hooks.updated(ctx, u)
	return u, nil
}
