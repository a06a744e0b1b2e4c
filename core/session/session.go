package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

var (
	// errors
	ErrNotFound        = errors.New("session not found")
	ErrUnauthenticated = errors.New("invalid or expired session")

	NowFunc = time.Now // mockable
)

// Session is the server-side record of an issued token; a token is only accepted while its Session exists.
type Session struct {
	ID        string
	Email     string
	Token     string
	CreatedAt time.Time
}

// Claims represents the authorization claims transmitted in the session token.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type (
	Repository interface {
		CreateSession(ctx context.Context, s Session) error
		// GetSession fails with ErrNotFound when no session matches both email and token.
		GetSession(ctx context.Context, email, token string) (Session, error)
		// DeleteSession returns the number of deleted sessions (0 or 1).
		DeleteSession(ctx context.Context, email, token string) (int, error)
	}

	Manager struct {
		repo   Repository
		secret []byte
		issuer string
		expiry time.Duration
	}
)

func NewManager(repo Repository, conf *core.Config) *Manager {
	return &Manager{
		repo:   repo,
		secret: []byte(conf.SecretKey),
		issuer: conf.AppName,
		expiry: conf.Server.SessionExpiry,
	}
}

// Expiry is the lifetime of issued sessions.
func (m *Manager) Expiry() time.Duration { return m.expiry }

// Issue signs a new token for the user and persists its Session.
func (m *Manager) Issue(ctx context.Context, email, username, role string) (string, error) {
	now := NowFunc()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
		Email:    email,
		Username: username,
		Role:     role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}

	sess := Session{Email: email, Token: token, CreatedAt: now.UTC()}
	if err = m.repo.CreateSession(ctx, sess); err != nil {
		return "", errors.Wrap(err, "creating session")
	}
	return token, nil
}

func (m *Manager) parse(token string, opts ...jwt.ParserOption) (Claims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(NowFunc),
	)
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, errors.Wrap(ErrUnauthenticated, err.Error())
	}
	if claims.Email == "" {
		return Claims{}, ErrUnauthenticated
	}
	return claims, nil
}

// Validate checks the token signature and expiry, then that its Session still exists and is not stale.
func (m *Manager) Validate(ctx context.Context, token string) (Claims, error) {
	claims, err := m.parse(token)
	if err != nil {
		return Claims{}, err
	}

	sess, err := m.repo.GetSession(ctx, claims.Email, token)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Claims{}, ErrUnauthenticated
		}
		return Claims{}, errors.Wrap(err, "getting session")
	}
	if NowFunc().Sub(sess.CreatedAt) > m.expiry {
		return Claims{}, ErrUnauthenticated
	}
	return claims, nil
}

// Revoke deletes the token's Session. Expired tokens with a valid signature can still be revoked.
func (m *Manager) Revoke(ctx context.Context, token string) (int, error) {
	claims, err := m.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return 0, err
	}
	deleted, err := m.repo.DeleteSession(ctx, claims.Email, token)
	return deleted, errors.Wrap(err, "deleting session")
}
