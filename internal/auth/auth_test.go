package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

func newManager(t *testing.T, ttl time.Duration) (*Manager, models.User) {
	t.Helper()
	store, err := sqlite.Open(":memory:", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), "Ana", "ana@example.com", models.RoleCoordinator, hash)
	require.NoError(t, err)

	return NewManager(store, slog.Default(), ttl), user
}

func TestSignInAndResolve(t *testing.T) {
	m, user := newManager(t, time.Hour)
	ctx := context.Background()

	token, got, err := m.SignIn(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	resolved, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, resolved.Email)

	m.SignOut(token)
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSignInRejectsWrongPassword(t *testing.T) {
	m, _ := newManager(t, time.Hour)
	ctx := context.Background()

	_, _, err := m.SignIn(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = m.SignIn(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionsExpire(t *testing.T) {
	m, _ := newManager(t, time.Millisecond)
	ctx := context.Background()

	token, _, err := m.SignIn(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestHashPasswordRejectsShort(t *testing.T) {
	_, err := HashPassword("abc")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "tok", bearerToken("Bearer tok"))
	assert.Equal(t, "", bearerToken("tok"))
	assert.Equal(t, "", bearerToken(""))
}
