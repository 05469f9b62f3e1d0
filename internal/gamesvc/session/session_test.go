package session

import (
	"testing"

	"github.com/avvvet/round-services/internal/gamesvc/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginCreatesUser(t *testing.T) {
	s := NewStore(decimal.NewFromInt(1000))

	u, err := s.Login("sock-1", models.User{Name: "  alice  ", Avatar: "a.png"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.UserId)
	assert.Equal(t, "alice", u.Name)
	assert.True(t, u.Balance.Equal(decimal.NewFromInt(1000)))

	cur, ok := s.CurrentUser("sock-1")
	require.True(t, ok)
	assert.Same(t, u, cur)

	again, err := s.Login("sock-1", models.User{Name: "bob"})
	require.NoError(t, err)
	assert.Same(t, u, again)
}

func TestLoginRequiresName(t *testing.T) {
	s := NewStore(decimal.Zero)
	_, err := s.Login("sock-1", models.User{Name: " "})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, ok := s.CurrentUser("sock-1")
	assert.False(t, ok)
}

func TestResumeAndLogout(t *testing.T) {
	s := NewStore(decimal.NewFromInt(1000))

	u, err := s.Login("sock-1", models.User{Name: "alice"})
	require.NoError(t, err)

	resumed, err := s.Login("sock-2", models.User{UserId: u.UserId, Name: " alice "})
	require.NoError(t, err)
	assert.Same(t, u, resumed)
	assert.Equal(t, 1, s.Count())

	assert.True(t, s.Logout("sock-1"))
	assert.Equal(t, 1, s.Count(), "still bound to sock-2")

	assert.True(t, s.Logout("sock-2"))
	assert.Equal(t, 0, s.Count())
	assert.False(t, s.Logout("sock-2"))

	_, ok := s.CurrentUser("sock-2")
	assert.False(t, ok)
}

func TestUnknownUserIdCreatesNewUser(t *testing.T) {
	s := NewStore(decimal.NewFromInt(10))
	u, err := s.Login("sock-1", models.User{UserId: 42, Name: "carol"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.UserId)
}

func TestResumeRequiresMatchingName(t *testing.T) {
	s := NewStore(decimal.NewFromInt(1000))

	u, err := s.Login("sock-1", models.User{Name: "alice"})
	require.NoError(t, err)

	_, err = s.Login("sock-2", models.User{UserId: u.UserId, Name: "mallory"})
	assert.ErrorIs(t, err, ErrUserMismatch)
	_, err = s.Login("sock-3", models.User{UserId: u.UserId})
	assert.ErrorIs(t, err, ErrUserMismatch)

	_, ok := s.CurrentUser("sock-2")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Count())
}
