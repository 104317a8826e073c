package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pharmacy/m/domain"
)

// Session identifies the logged-in user for the duration of a request.
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// NewSession builds the session for an authenticated user.
func NewSession(u domain.User) Session {
	return Session{UserID: u.ID, Username: u.Username, FullName: u.FullName}
}

// DisplayName is the name recorded on dispensations, falling back to SystemUser.
func (s Session) DisplayName() string {
	if name := strings.TrimSpace(s.FullName); name != "" {
		return name
	}
	return domain.SystemUser
}

type ctxKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFrom returns the session stored in ctx, if any.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

type sessionClaims struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// Issuer saves sessions into signed tokens and loads them back.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Save signs s into an HS256 token valid for the issuer's TTL.
func (i *Issuer) Save(s Session) (string, error) {
	now := i.now()
	claims := sessionClaims{
		Username: s.Username,
		FullName: s.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Load verifies a token and returns the session it carries.
func (i *Issuer) Load(token string) (Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return Session{}, fmt.Errorf("load session: %w", domain.ErrInvalidCredentials)
	}
	if claims.Subject == "" {
		return Session{}, fmt.Errorf("load session: %w", domain.ErrInvalidCredentials)
	}
	return Session{UserID: claims.Subject, Username: claims.Username, FullName: claims.FullName}, nil
}
