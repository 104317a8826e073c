package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
)

type memUsers map[string]domain.User

func (m memUsers) UserByUsername(_ context.Context, username string) (domain.User, error) {
	u, ok := m[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func newUsers(t *testing.T) memUsers {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	return memUsers{
		"ana":   {ID: "u1", Username: "ana", PasswordHash: hash, FullName: "Ana Costa", Active: true},
		"bruno": {ID: "u2", Username: "bruno", PasswordHash: hash, FullName: "Bruno Reis", Active: false},
	}
}

func TestAuthenticate(t *testing.T) {
	a := NewAuthenticator(newUsers(t))
	ctx := context.Background()

	user, err := a.Authenticate(ctx, "ana", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Empty(t, user.PasswordHash)

	for name, creds := range map[string][2]string{
		"wrong password": {"ana", "nope"},
		"unknown user":   {"carla", "s3cret"},
		"inactive user":  {"bruno", "s3cret"},
		"empty password": {"ana", ""},
	} {
		_, err := a.Authenticate(ctx, creds[0], creds[1])
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, name)
	}
}

func TestHashPassword_RejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestIssuer_SaveLoad(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	in := Session{UserID: "u1", Username: "ana", FullName: "Ana Costa"}

	token, err := issuer.Save(in)
	require.NoError(t, err)

	out, err := issuer.Load(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestIssuer_RejectsExpiredAndForeignTokens(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, err := issuer.Save(Session{UserID: "u1"})
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Load(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	other := NewIssuer("other-secret", time.Hour)
	_, err = other.Load(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFrom(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), Session{UserID: "u1", FullName: "Ana Costa"})
	s, ok := SessionFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "Ana Costa", s.DisplayName())
	assert.Equal(t, domain.SystemUser, Session{}.DisplayName())
}
