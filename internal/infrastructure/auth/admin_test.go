package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trycco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T) *AdminAuthenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAdminAuthenticator(
		config.AdminConfig{Username: "admin", PasswordHash: string(hash)},
		newTestTokenService(),
		NewInMemoryRevocationList(),
		zap.NewNop(),
	)
}

func TestAdminAuthenticator_Login(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	token, err := a.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)

	claims, err := a.Authenticate(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	_, err = a.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = a.Login(ctx, "root", "s3cret")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAdminAuthenticator_LoginDisabledWithoutHash(t *testing.T) {
	a := NewAdminAuthenticator(config.AdminConfig{Username: "admin"}, newTestTokenService(), nil, zap.NewNop())
	_, err := a.Login(context.Background(), "admin", "")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAdminAuthenticator_Logout(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)
	token, err := a.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)
	claims, err := a.Authenticate(ctx, token.AccessToken)
	require.NoError(t, err)

	require.NoError(t, a.Logout(ctx, claims))
	_, err = a.Authenticate(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	fresh, err := a.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)
	_, err = a.Authenticate(ctx, fresh.AccessToken)
	assert.NoError(t, err)
}

type brokenRevocations struct{}

func (brokenRevocations) Revoke(context.Context, string, time.Duration) error {
	return errors.New("redis down")
}
func (brokenRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestAdminAuthenticator_RevocationFailure(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)
	token, err := a.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)

	a.revocations = brokenRevocations{}
	_, err = a.Authenticate(ctx, token.AccessToken)
	assert.EqualError(t, err, "redis down")
}

func TestInMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	l := NewInMemoryRevocationList()
	now := time.Now()
	l.now = func() time.Time { return now }

	require.NoError(t, l.Revoke(ctx, "a", time.Minute))
	require.NoError(t, l.Revoke(ctx, "expired", 0))

	revoked, err := l.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, _ = l.IsRevoked(ctx, "expired")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = l.IsRevoked(ctx, "a")
	assert.False(t, revoked)
	assert.Empty(t, l.revoked)
}
