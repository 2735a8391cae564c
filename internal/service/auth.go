package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taskmanager/taskmanager-go/internal/crypto"
	"github.com/taskmanager/taskmanager-go/internal/model"
	"github.com/taskmanager/taskmanager-go/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrRevocationDisabled = errors.New("token revocation is not enabled")
	ErrRevocationCheck    = errors.New("authentication unavailable")
)

const (
	msgRegistered = "User registered successfully!"
	msgLoggedIn   = "Login successful"
	msgRefreshed  = "Token refreshed"
)

// CredentialStore persists user records.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *model.User) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
}

// TokenIssuer issues and decodes bearer tokens.
type TokenIssuer interface {
	IssueAccess(subject string) (string, error)
	IssueRefresh(subject string) (string, error)
	Parse(token string) (*crypto.Claims, error)
}

// Revoker records revoked token IDs until they expire and reports whether
// an ID has been revoked.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users   CredentialStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	revoker Revoker
}

// NewAuthService creates a new AuthService. revoker may be nil, in which
// case Logout reports ErrRevocationDisabled.
func NewAuthService(users CredentialStore, hasher PasswordHasher, tokens TokenIssuer, revoker Revoker) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
	}
}

// Register creates a new account with the USER role and returns a token pair.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResult, error) {
	user, err := createUser(ctx, s.users, s.hasher, req)
	if err != nil {
		return model.AuthResult{}, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return s.issue(user, msgRegistered)
}

// Authenticate verifies a username/password pair and returns a fresh token pair.
// An unknown username yields ErrUserNotFound; a wrong password ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, req model.LoginRequest) (model.AuthResult, error) {
	if err := validateLogin(req); err != nil {
		return model.AuthResult{}, err
	}

	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResult{}, ErrUserNotFound
		}
		return model.AuthResult{}, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		slog.WarnContext(ctx, "login failed: bad credentials", "username", user.Username)
		return model.AuthResult{}, ErrInvalidCredentials
	}

	return s.issue(user, msgLoggedIn)
}

// Refresh exchanges a valid refresh token for a new token pair. The subject
// must still exist and, when revocation is enabled, the token must not be
// revoked.
func (s *AuthService) Refresh(ctx context.Context, req model.RefreshRequest) (model.AuthResult, error) {
	if req.RefreshToken == "" {
		return model.AuthResult{}, &ValidationError{Fields: map[string]string{"refreshToken": "Refresh token is required"}}
	}

	claims, err := s.tokens.Parse(req.RefreshToken)
	if err != nil {
		return model.AuthResult{}, tokenError(err)
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			slog.ErrorContext(ctx, "revocation check failed", "error", err)
			return model.AuthResult{}, ErrRevocationCheck
		}
		if revoked {
			return model.AuthResult{}, ErrTokenRevoked
		}
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResult{}, ErrUserNotFound
		}
		return model.AuthResult{}, err
	}

	return s.issue(user, msgRefreshed)
}

// Logout revokes the token identified by jti until its expiry.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.revoker == nil {
		return ErrRevocationDisabled
	}
	return s.revoker.Revoke(ctx, jti, expiresAt)
}

// CurrentUser returns the public view of the authenticated user.
func (s *AuthService) CurrentUser(ctx context.Context, username string) (model.UserResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	return user.ToResponse(), nil
}

func (s *AuthService) issue(user *model.User, msg string) (model.AuthResult, error) {
	access, err := s.tokens.IssueAccess(user.Username)
	if err != nil {
		return model.AuthResult{}, err
	}
	refresh, err := s.tokens.IssueRefresh(user.Username)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
		Message:      msg,
	}, nil
}

// createUser validates req, checks uniqueness, hashes the password and
// persists the user with the USER role. The unique keys in the store remain
// authoritative when two registrations race past the pre-checks.
func createUser(ctx context.Context, users CredentialStore, hasher PasswordHasher, req model.RegisterRequest) (*model.User, error) {
	req = normalizeRegistration(req)
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	taken, err := users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}

	if err := users.Save(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// tokenError maps token service failures onto service errors.
func tokenError(err error) error {
	if errors.Is(err, crypto.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrInvalidToken
}
