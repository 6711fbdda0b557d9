package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateSigner_RoundTrip(t *testing.T) {
	t.Parallel()

	s := NewStateSigner("state-secret", 0)
	assert.Equal(t, 10*time.Minute, s.ttl)

	a, err := s.Sign()
	require.NoError(t, err)
	b, err := s.Sign()
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "each state carries its own nonce")

	assert.NoError(t, s.Check(a))
	assert.NoError(t, s.Check(b))
}

func TestStateSigner_Rejects(t *testing.T) {
	t.Parallel()

	s := NewStateSigner("state-secret", time.Minute)
	good, err := s.Sign()
	require.NoError(t, err)

	foreign, err := NewStateSigner("other-secret", time.Minute).Sign()
	require.NoError(t, err)

	// an identity token signed with the same secret is not a state
	identity, _, err := NewJWTManager("state-secret").Issue(Claims{UserID: "u1"})
	require.NoError(t, err)

	stale := NewStateSigner("state-secret", time.Minute)
	stale.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := stale.Sign()
	require.NoError(t, err)

	tests := []struct {
		name  string
		state string
	}{
		{name: "empty", state: ""},
		{name: "garbage", state: "abc"},
		{name: "wrong secret", state: foreign},
		{name: "wrong audience", state: identity},
		{name: "expired", state: expired},
		{name: "truncated", state: good[:len(good)-4]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Check(tt.state), ErrInvalidState)
		})
	}
}
