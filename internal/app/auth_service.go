// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"weblog/internal/domain"
)

var (
	// ErrUsernameTaken indicates that the requested username already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotAuthenticated indicates that the client has no valid session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidUsername indicates that the username fails the shape rules.
	ErrInvalidUsername = errors.New("username must be 3-25 characters")
	// ErrInvalidPassword indicates that the password fails the shape rules.
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
)

const (
	minUsernameLen = 3
	maxUsernameLen = 25
	minPasswordLen = 6
)

// AuthService handles registration, authentication and session management.
type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	hasher     PasswordHasher
	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, hasher PasswordHasher, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new user with a hashed password. The username must be
// unique under case-sensitive exact match.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	// Bounds count characters, not bytes.
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, ErrInvalidUsername
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, ErrInvalidPassword
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, username, hash)
}

// Login authenticates a user and creates a session. Unknown usernames and
// wrong passwords produce the same error so callers cannot tell which.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return "", ErrInvalidCredentials
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return s.startSession(ctx, user.Username)
}

// Logout invalidates a session. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// CurrentUser resolves a session token to the user it names. Expired
// sessions and sessions whose user no longer exists are deleted on sight,
// so a later call observes no stored identity.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrNotAuthenticated
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrNotAuthenticated
	}

	user, err := s.users.GetByUsername(ctx, session.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrNotAuthenticated
	}

	return user, nil
}

// LoginRemoteUser creates a session for a user already authenticated by an
// upstream identity provider, provisioning a local account on first sight.
func (s *AuthService) LoginRemoteUser(ctx context.Context, username string) (string, error) {
	user, err := s.provisionRemoteUser(ctx, username)
	if err != nil {
		return "", err
	}
	return s.startSession(ctx, user.Username)
}

// ValidateRemoteUser resolves an upstream-authenticated username to a local
// user, provisioning one on first sight.
func (s *AuthService) ValidateRemoteUser(ctx context.Context, remoteUser string) (*domain.User, error) {
	if remoteUser == "" {
		return nil, ErrNotAuthenticated
	}
	return s.provisionRemoteUser(ctx, remoteUser)
}

// SweepExpiredSessions removes all expired sessions.
func (s *AuthService) SweepExpiredSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

func (s *AuthService) provisionRemoteUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	// Store a digest of a random secret so the account has no usable
	// local password.
	hash, err := s.hasher.Hash(randomSecret())
	if err != nil {
		return nil, err
	}
	user, err = s.users.Create(ctx, username, hash)
	if err != nil {
		// Lost a provisioning race; the row should exist now.
		user, err = s.users.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("provisioning user %q failed", username)
		}
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, username string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.sessions.Create(ctx, username, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func randomSecret() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
