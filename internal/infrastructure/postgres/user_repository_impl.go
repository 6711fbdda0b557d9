package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/educatalog/internal/domain/entity"
	"github.com/oksasatya/educatalog/internal/domain/repository"
)

const (
	pgUniqueViolation    = "23505"
	pgInvalidTextRepr    = "22P02"
	providerIDConstraint = "users_provider_id_key"
)

const userColumns = `id, email, provider_id, name, profile_picture, role, children, is_active, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	children, err := encodeChildren(u.Children)
	if err != nil {
		return err
	}
	if u.Role == "" {
		u.Role = entity.RoleParent
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, provider_id, name, profile_picture, role, children, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, entity.NormalizeEmail(u.Email), nullable(u.ProviderID), u.Name, u.ProfilePicture, string(u.Role), children, u.IsActive)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return translate(err)
	}
	u.Email = entity.NormalizeEmail(u.Email)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, entity.NormalizeEmail(email))
}

func (r *UserRepository) FindByEmailOrProvider(ctx context.Context, email, providerID string) (*entity.User, error) {
	// email match wins when both identify different rows
	return r.one(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE lower(email) = $1 OR ($2::text IS NOT NULL AND provider_id = $2)
		ORDER BY (lower(email) = $1) DESC
		LIMIT 1
	`, entity.NormalizeEmail(email), nullable(providerID))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	children, err := encodeChildren(u.Children)
	if err != nil {
		return err
	}
	stored, err := r.one(ctx, `
		UPDATE users
		SET email = $1, provider_id = $2, name = $3, profile_picture = $4,
		    children = $5, updated_at = now()
		WHERE id = $6
		RETURNING `+userColumns,
		entity.NormalizeEmail(u.Email), nullable(u.ProviderID), u.Name, u.ProfilePicture, children, u.ID)
	if err != nil {
		return err
	}
	*u = *stored
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) (*entity.User, error) {
	return r.one(ctx, `
		UPDATE users SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, id, active)
}

func (r *UserRepository) SetRole(ctx context.Context, id string, role entity.Role) (*entity.User, error) {
	return r.one(ctx, `
		UPDATE users SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, id, string(role))
}

func (r *UserRepository) List(ctx context.Context, f repository.ListFilter) ([]*entity.User, int, error) {
	var role *string
	if f.Role != "" {
		s := string(f.Role)
		role = &s
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE ($1::text IS NULL OR role = $1)`, role).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	limit, offset := f.Limit, (f.Page-1)*f.Limit
	if limit <= 0 {
		limit, offset = total, 0
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE ($1::text IS NULL OR role = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, role, limit, offset)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	out := make([]*entity.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, translate(err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err)
	}
	return out, total, nil
}

func (r *UserRepository) one(ctx context.Context, sql string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u          entity.User
		providerID *string
		role       string
		children   []byte
	)
	if err := row.Scan(&u.ID, &u.Email, &providerID, &u.Name, &u.ProfilePicture, &role,
		&children, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if providerID != nil {
		u.ProviderID = *providerID
	}
	u.Role = entity.Role(role)
	u.Children = []entity.Child{}
	if len(children) > 0 {
		if err := json.Unmarshal(children, &u.Children); err != nil {
			return nil, fmt.Errorf("decode children: %w", err)
		}
	}
	return &u, nil
}

// translate maps driver errors onto repository errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &repository.ConflictError{Field: conflictField(pgErr.ConstraintName)}
		case pgInvalidTextRepr:
			return repository.ErrInvalidID
		}
	}
	return err
}

func conflictField(constraint string) string {
	switch {
	case constraint == providerIDConstraint, strings.Contains(constraint, "provider"):
		return repository.FieldProviderID
	default:
		return repository.FieldEmail
	}
}

func encodeChildren(ch []entity.Child) ([]byte, error) {
	if ch == nil {
		ch = []entity.Child{}
	}
	b, err := json.Marshal(ch)
	if err != nil {
		return nil, fmt.Errorf("encode children: %w", err)
	}
	return b, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.UserRepository = (*UserRepository)(nil)
