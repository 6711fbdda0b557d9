package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/educatalog/internal/domain/entity"
	"github.com/oksasatya/educatalog/internal/domain/repository"
	"github.com/oksasatya/educatalog/internal/infrastructure/memory"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := memory.NewUserRepository()

	u := entity.NewUser("  Parent@Example.COM ", "Pat")
	u.ProviderID = "g-1"
	require.NoError(t, r.Create(ctx, u))
	_, err := uuid.Parse(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "parent@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	byEmail, err := r.GetByEmail(ctx, "PARENT@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byProvider, err := r.FindByEmailOrProvider(ctx, "other@example.com", "g-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byProvider.ID)

	_, err = r.FindByEmailOrProvider(ctx, "other@example.com", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = r.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestUserRepository_FindPrefersEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := memory.NewUserRepository()

	a := entity.NewUser("a@example.com", "A")
	a.ProviderID = "g-a"
	b := entity.NewUser("b@example.com", "B")
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))

	got, err := r.FindByEmailOrProvider(ctx, "b@example.com", "g-a")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := memory.NewUserRepository()

	a := entity.NewUser("a@example.com", "A")
	a.ProviderID = "g-a"
	require.NoError(t, r.Create(ctx, a))

	dupEmail := entity.NewUser("A@example.com", "dup")
	err := r.Create(ctx, dupEmail)
	var ce *repository.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, repository.FieldEmail, ce.Field)

	dupProvider := entity.NewUser("c@example.com", "C")
	dupProvider.ProviderID = "g-a"
	err = r.Create(ctx, dupProvider)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, repository.FieldProviderID, ce.Field)

	b := entity.NewUser("b@example.com", "B")
	require.NoError(t, r.Create(ctx, b))
	b.Email = "a@example.com"
	assert.True(t, repository.IsConflict(r.Update(ctx, b)))

	assert.Equal(t, 2, r.Len())
}

func TestUserRepository_UpdateLeavesRoleAndActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := memory.NewUserRepository()

	u := entity.NewUser("a@example.com", "A")
	require.NoError(t, r.Create(ctx, u))
	stale, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)

	_, err = r.SetRole(ctx, u.ID, entity.RoleAdmin)
	require.NoError(t, err)
	_, err = r.SetActive(ctx, u.ID, false)
	require.NoError(t, err)

	stale.Name = "Renamed"
	require.NoError(t, r.Update(ctx, stale))
	assert.Equal(t, entity.RoleAdmin, stale.Role)
	assert.False(t, stale.IsActive)

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, entity.RoleAdmin, got.Role)
	assert.False(t, got.IsActive)

	_, err = r.SetRole(ctx, "not-a-uuid", entity.RoleAdmin)
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := memory.NewUserRepository()

	u := entity.NewUser("a@example.com", "A")
	u.Children = []entity.Child{{Name: "Kid", Age: 7, Interests: []string{"math"}}}
	require.NoError(t, r.Create(ctx, u))

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Name = "mutated"
	got.Children[0].Interests[0] = "mutated"

	again, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
	assert.Equal(t, "math", again.Children[0].Interests[0])
}

func TestUserRepository_SetActiveAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := memory.NewUserRepository()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, r.Create(ctx, entity.NewUser(email, email)))
	}
	admin := entity.NewUser("admin@example.com", "Admin")
	admin.Role = entity.RoleAdmin
	require.NoError(t, r.Create(ctx, admin))

	off, err := r.SetActive(ctx, admin.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	users, total, err := r.List(ctx, repository.ListFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, users, 2)

	users, total, err = r.List(ctx, repository.ListFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Empty(t, users)

	admins, total, err := r.List(ctx, repository.ListFilter{Role: entity.RoleAdmin, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, admins, 1)
	assert.False(t, admins[0].IsActive)
}

func TestUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := memory.NewUserRepository()

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.Create(ctx, entity.NewUser("race@example.com", "R"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if repository.IsConflict(err) {
				conflicts++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)
	assert.Equal(t, 1, r.Len())
}
