package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/educatalog/internal/domain/entity"
)

// Errors returned by every UserRepository implementation. Storage adapters
// translate driver-specific failures into these before returning.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid id")
)

// Unique fields guarded by the store.
const (
	FieldEmail      = "email"
	FieldProviderID = "provider_id"
)

// ConflictError reports a unique-constraint violation on Field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// IsConflict reports whether err is a unique-constraint violation.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// ListFilter narrows List results. Page is 1-based.
type ListFilter struct {
	Role  entity.Role
	Page  int
	Limit int
}

// UserRepository defines the interface for user-related storage operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByEmailOrProvider returns the first user whose email or provider id
	// matches. An empty providerID only matches by email.
	FindByEmailOrProvider(ctx context.Context, email, providerID string) (*entity.User, error)
	// Update writes the profile columns (email, provider id, name, picture,
	// children). Role and active flag are left as stored and copied back
	// into u, so a concurrent SetRole or SetActive is never overwritten.
	Update(ctx context.Context, u *entity.User) error
	SetActive(ctx context.Context, id string, active bool) (*entity.User, error)
	SetRole(ctx context.Context, id string, role entity.Role) (*entity.User, error)
	List(ctx context.Context, f ListFilter) ([]*entity.User, int, error)
}
