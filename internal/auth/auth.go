package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"pharmacy/m/domain"
)

// UserStore is the credential lookup the authenticator needs.
type UserStore interface {
	UserByUsername(ctx context.Context, username string) (domain.User, error)
}

// Authenticator checks username/password pairs against stored bcrypt hashes.
type Authenticator struct {
	users     UserStore
	dummyHash []byte
}

func NewAuthenticator(users UserStore) *Authenticator {
	// Compared against when the user does not exist so both paths cost one bcrypt run.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return &Authenticator{users: users, dummyHash: dummy}
}

// Authenticate returns the matching active user with its hash cleared. Unknown users,
// inactive users and wrong passwords all yield ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	if username == "" || password == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	user, err := a.users.UserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil || !user.Active {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// HashPassword returns the bcrypt hash stored for a new password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password: %w", domain.ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
