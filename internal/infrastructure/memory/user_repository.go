// Package memory is an in-process UserRepository that enforces the same
// unique constraints as the postgres schema. It backs tests and
// STORE_DRIVER=memory local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/educatalog/internal/domain/entity"
	"github.com/oksasatya/educatalog/internal/domain/repository"
)

type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*entity.User
	byEmail    map[string]string
	byProvider map[string]string
	now        func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]*entity.User),
		byEmail:    make(map[string]string),
		byProvider: make(map[string]string),
		now:        time.Now,
	}
}

// Len returns the number of stored users.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := entity.NormalizeEmail(u.Email)
	if _, ok := r.byEmail[email]; ok {
		return &repository.ConflictError{Field: repository.FieldEmail}
	}
	if u.ProviderID != "" {
		if _, ok := r.byProvider[u.ProviderID]; ok {
			return &repository.ConflictError{Field: repository.FieldProviderID}
		}
	}

	now := r.now()
	u.ID = uuid.NewString()
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = entity.RoleParent
	}

	stored := clone(u)
	r.byID[u.ID] = stored
	r.byEmail[email] = u.ID
	if u.ProviderID != "" {
		r.byProvider[u.ProviderID] = u.ID
	}
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) FindByEmailOrProvider(_ context.Context, email, providerID string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byEmail[entity.NormalizeEmail(email)]; ok {
		return clone(r.byID[id]), nil
	}
	if providerID != "" {
		if id, ok := r.byProvider[providerID]; ok {
			return clone(r.byID[id]), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	email := entity.NormalizeEmail(u.Email)
	if id, ok := r.byEmail[email]; ok && id != u.ID {
		return &repository.ConflictError{Field: repository.FieldEmail}
	}
	if u.ProviderID != "" {
		if id, ok := r.byProvider[u.ProviderID]; ok && id != u.ID {
			return &repository.ConflictError{Field: repository.FieldProviderID}
		}
	}

	delete(r.byEmail, cur.Email)
	if cur.ProviderID != "" {
		delete(r.byProvider, cur.ProviderID)
	}
	u.Email = email
	u.Role = cur.Role
	u.IsActive = cur.IsActive
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = r.now()
	stored := clone(u)
	r.byID[u.ID] = stored
	r.byEmail[email] = u.ID
	if u.ProviderID != "" {
		r.byProvider[u.ProviderID] = u.ID
	}
	return nil
}

func (r *UserRepository) SetActive(_ context.Context, id string, active bool) (*entity.User, error) {
	return r.mutate(id, func(u *entity.User) { u.IsActive = active })
}

func (r *UserRepository) SetRole(_ context.Context, id string, role entity.Role) (*entity.User, error) {
	return r.mutate(id, func(u *entity.User) { u.Role = role })
}

func (r *UserRepository) mutate(id string, fn func(*entity.User)) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = r.now()
	return clone(u), nil
}

func (r *UserRepository) List(_ context.Context, f repository.ListFilter) ([]*entity.User, int, error) {
	r.mu.RLock()
	all := make([]*entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		all = append(all, clone(u))
	}
	r.mu.RUnlock()

	// newest first, matching the postgres ORDER BY
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	limit, offset := f.Limit, (f.Page-1)*f.Limit
	if limit <= 0 || offset < 0 {
		return all, total, nil
	}
	if offset >= total {
		return []*entity.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func clone(u *entity.User) *entity.User {
	c := *u
	c.Children = make([]entity.Child, len(u.Children))
	for i, ch := range u.Children {
		ch.Interests = append([]string(nil), ch.Interests...)
		c.Children[i] = ch
	}
	return &c
}

var _ repository.UserRepository = (*UserRepository)(nil)
