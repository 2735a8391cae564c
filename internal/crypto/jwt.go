package crypto

import (
	"bytes"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the JWT claims issued by TokenService. The subject is the
// username; the ID (jti) identifies the token for revocation.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 tokens bound to a username.
// Access and refresh tokens differ only in their TTL.
type TokenService struct {
	key        []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a TokenService. The key is copied and never modified.
func NewTokenService(key []byte, issuer string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		key:        bytes.Clone(key),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue creates a signed token for subject that expires after ttl.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// IssueAccess issues a short-lived access token.
func (s *TokenService) IssueAccess(subject string) (string, error) {
	return s.Issue(subject, s.accessTTL)
}

// IssueRefresh issues a long-lived refresh token.
func (s *TokenService) IssueRefresh(subject string) (string, error) {
	return s.Issue(subject, s.refreshTTL)
}

// Parse verifies the signature, issuer and expiry of tokenString.
// It returns ErrTokenExpired for an otherwise valid token past its expiry
// and ErrInvalidToken for everything else.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// SubjectOf returns the username the token was issued for.
func (s *TokenService) SubjectOf(tokenString string) (string, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValid reports whether tokenString is unexpired, correctly signed and
// issued for expectedSubject.
func (s *TokenService) IsValid(tokenString, expectedSubject string) bool {
	subject, err := s.SubjectOf(tokenString)
	return err == nil && subject == expectedSubject
}
