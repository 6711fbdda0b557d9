package helpers_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/educatalog/pkg/helpers"
)

func testClaims() helpers.Claims {
	return helpers.Claims{
		UserID: "7d0c5a6e-3c1f-4a43-9d2e-1b4f0f7f2a10",
		Email:  "parent@example.com",
		Name:   "Pat Parent",
		Role:   "parent",
	}
}

func TestJWTManager_IssueVerify(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := helpers.NewJWTManager("secret", helpers.WithClock(func() time.Time { return now }))
	assert.Equal(t, helpers.TokenTTL, m.TTL())

	token, exp, err := m.Issue(testClaims())
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), exp)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "7d0c5a6e-3c1f-4a43-9d2e-1b4f0f7f2a10", claims.UserID)
	assert.Equal(t, claims.UserID, claims.Subject)
	assert.Equal(t, "parent@example.com", claims.Email)
	assert.Equal(t, "Pat Parent", claims.Name)
	assert.Equal(t, "parent", claims.Role)
	assert.Equal(t, now, claims.IssuedAt.Time.UTC())
	assert.Equal(t, exp, claims.ExpiresAt.Time.UTC())
}

func TestJWTManager_Verify_Expired(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now().Add(-25 * time.Hour)
	issuer := helpers.NewJWTManager("secret", helpers.WithClock(func() time.Time { return issuedAt }))
	token, _, err := issuer.Issue(testClaims())
	require.NoError(t, err)

	_, err = helpers.NewJWTManager("secret").Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, helpers.ErrTokenExpired)
	assert.NotErrorIs(t, err, helpers.ErrTokenMalformed)
}

func TestJWTManager_Verify_Malformed(t *testing.T) {
	t.Parallel()

	m := helpers.NewJWTManager("secret")
	good, _, err := m.Issue(testClaims())
	require.NoError(t, err)

	other := testClaims()
	other.Role = "admin"
	forged, _, err := helpers.NewJWTManager("other-secret").Issue(other)
	require.NoError(t, err)

	// admin payload spliced onto the parent token's signature
	gp := strings.Split(good, ".")
	fp := strings.Split(forged, ".")
	spliced := gp[0] + "." + fp[1] + "." + gp[2]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "7d0c5a6e-3c1f-4a43-9d2e-1b4f0f7f2a10",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, _, err := m.Issue(helpers.Claims{Email: "x@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: forged},
		{name: "tampered payload", token: spliced},
		{name: "alg none", token: none},
		{name: "missing user id", token: noUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, helpers.ErrTokenMalformed)
		})
	}
}

func TestJWTManager_Verify_MissingExpiry(t *testing.T) {
	t.Parallel()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "7d0c5a6e-3c1f-4a43-9d2e-1b4f0f7f2a10",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = helpers.NewJWTManager("secret").Verify(token)
	assert.ErrorIs(t, err, helpers.ErrTokenMalformed)
}
