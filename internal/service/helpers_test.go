package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskmanager/taskmanager-go/internal/crypto"
	"github.com/taskmanager/taskmanager-go/internal/model"
	"github.com/taskmanager/taskmanager-go/internal/repository/memory"
)

var testHashParams = crypto.HashParams{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newTestTokens() *crypto.TokenService {
	return crypto.NewTokenService([]byte("test-secret"), "taskmanager-test", time.Hour, 24*time.Hour)
}

type authFixture struct {
	svc    *AuthService
	users  *memory.UserStore
	tokens *crypto.TokenService
	hasher *crypto.PasswordHasher
}

func newAuthFixture(revoker Revoker) authFixture {
	f := authFixture{
		users:  memory.NewUserStore(),
		tokens: newTestTokens(),
		hasher: crypto.NewPasswordHasher(testHashParams),
	}
	f.svc = NewAuthService(f.users, f.hasher, f.tokens, revoker)
	return f
}

func (f authFixture) register(t *testing.T, username, email, password string) model.AuthResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return res
}

// racingStore reports every username and email as free, so Save is the
// first place a conflict can surface.
type racingStore struct {
	*memory.UserStore
}

func (racingStore) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (racingStore) ExistsByEmail(context.Context, string) (bool, error)    { return false, nil }

type recordingRevoker struct {
	jti       string
	expiresAt time.Time
	err       error
	revoked   map[string]bool
	checkErr  error
}

func (r *recordingRevoker) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	r.jti = jti
	r.expiresAt = expiresAt
	return r.err
}

func (r *recordingRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r.revoked[jti], r.checkErr
}
