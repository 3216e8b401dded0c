// Package auth implements credential hashing, access token issue and
// verification, and the register/login flow composed from them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/apperr"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/policy"
)

// TokenType is the OAuth2 token type returned on login.
const TokenType = "bearer"

// UserStore is the slice of the store the auth flow needs.
type UserStore interface {
	data.UserStore
	data.Pinger
}

type RegisterInput struct {
	Email    string
	Password string
	Role     data.Role
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	TokenType   string
	Email       string
	Role        data.Role
	ExpiresAt   time.Time
}

// Service composes a Hasher and Tokens over a UserStore.
type Service struct {
	users  UserStore
	hasher *Hasher
	tokens *Tokens
	ttl    time.Duration
}

// NewService builds the auth flow. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewService(users UserStore, hasher *Hasher, tokens *Tokens, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, ttl: ttl}
}

// Register creates a user with a hashed password. An already registered
// email is a CONFLICT.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*data.User, error) {
	if err := data.CheckAvailable(ctx, s.users); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = data.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.Validation(map[string]string{"role": "must be one of user, admin"})
	}

	_, err := s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperr.New(apperr.CodeConflict, "user already exists")
	case !errors.Is(err, data.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &data.User{Email: in.Email, PasswordHash: digest, Role: role}
	if err := s.users.InsertUser(ctx, u); err != nil {
		if errors.Is(err, data.ErrDuplicateEmail) {
			return nil, apperr.New(apperr.CodeConflict, "user already exists")
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Login checks credentials and issues an access token. Unknown emails and
// wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := data.CheckAvailable(ctx, s.users); err != nil {
		return nil, err
	}
	invalid := apperr.New(apperr.CodeUnauthenticated, "invalid email or password")

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, invalid
	}

	token, expiresAt, err := s.tokens.Issue(u.Email, u.Role, s.ttl)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken: token,
		TokenType:   TokenType,
		Email:       u.Email,
		Role:        u.Role,
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate resolves a bearer token to its principal.
func (s *Service) Authenticate(token string) (policy.Principal, error) {
	return s.tokens.Verify(token)
}
