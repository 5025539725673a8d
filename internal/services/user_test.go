package services

import (
	"context"
	"testing"
	"time"

	"github.com/balancesheet-pro/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUsers() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo).WithBcryptCost(bcrypt.MinCost)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newTestUsers()

	user, err := svc.Register(context.Background(), " alice ", "alice@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	stored := repo.users[user.ID]
	assert.NotEqual(t, "pw", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw")))
}

func TestRegisterRejectsBlankPassword(t *testing.T) {
	svc, repo := newTestUsers()

	for _, pw := range []string{"", "   "} {
		_, err := svc.Register(context.Background(), "bob", "bob@example.com", pw)
		assert.ErrorIs(t, err, ErrEmptyPassword)
	}
	assert.Empty(t, repo.users)

	_, _, err := svc.EnsureUser(context.Background(), "load_user", "load@example.com", "")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestRegisterConflicts(t *testing.T) {
	svc, _ := newTestUsers()
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "new@example.com", "pw")
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = svc.Register(ctx, "alice2", "alice@example.com", "pw")
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestAuthenticate(t *testing.T) {
	svc, repo := newTestUsers()
	ctx := context.Background()
	registered, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.Authenticate(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, fixedNow, *user.LastLogin)
	assert.Equal(t, fixedNow, *repo.users[registered.ID].LastLogin)
}

func TestEnsureUser(t *testing.T) {
	svc, _ := newTestUsers()
	ctx := context.Background()

	first, created, err := svc.EnsureUser(ctx, "admin", "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.EnsureUser(ctx, "admin", "admin@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}
