package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/educatalog/internal/application"
	"github.com/oksasatya/educatalog/internal/domain/apperror"
	"github.com/oksasatya/educatalog/internal/domain/entity"
)

func TestAuthService_Register(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	res, err := f.auth.Register(ctx, "New@Example.com", " Nia ")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", res.User.Email)
	assert.Equal(t, "Nia", res.User.Name)
	assert.Equal(t, entity.RoleParent, res.User.Role)

	claims, err := f.jwt.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "parent", claims.Role)
	assert.Equal(t, 1, f.rec.tokens[application.MethodRegister])
	assert.EqualValues(t, 1, f.welcome.welcomed.Load())

	_, err = f.auth.Register(ctx, "NEW@example.com", "Again")
	assert.ErrorIs(t, err, apperror.ErrUserExists)
	assert.Equal(t, 1, f.repo.Len())
}

func TestAuthService_RegisterSurvivesHookFailures(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.idx.err = errBoom
	f.welcome.err = errBoom

	res, err := f.auth.Register(context.Background(), "a@example.com", "A")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.Login(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	reg, err := f.auth.Register(ctx, "a@example.com", "A")
	require.NoError(t, err)

	res, err := f.auth.Login(ctx, " A@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.Equal(t, 1, f.rec.tokens[application.MethodLogin])

	_, err = f.repo.SetActive(ctx, reg.User.ID, false)
	require.NoError(t, err)
	_, err = f.auth.Login(ctx, "a@example.com")
	assert.ErrorIs(t, err, apperror.ErrAccountDisabled)
}

func TestAuthService_ProfileAndChildren(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, "a@example.com", "A")
	require.NoError(t, err)

	u, err := f.auth.UpdateChildren(ctx, reg.User.ID, []entity.Child{{Name: "Kid", Age: 6, Interests: []string{"science"}}})
	require.NoError(t, err)
	require.Len(t, u.Children, 1)

	got, err := f.auth.Profile(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kid", got.Children[0].Name)

	u, err = f.auth.UpdateChildren(ctx, reg.User.ID, nil)
	require.NoError(t, err)
	assert.NotNil(t, u.Children)
	assert.Empty(t, u.Children)

	_, err = f.auth.Profile(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	_, err = f.auth.Profile(ctx, "bogus")
	assert.ErrorIs(t, err, apperror.ErrInvalidID)
}
