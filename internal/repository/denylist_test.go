package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDenylist(t *testing.T) (*TokenDenylist, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewTokenDenylist(client), mr
}

func TestDenylist_RevokeAndCheck(t *testing.T) {
	d, mr := setupDenylist(t)
	ctx := context.Background()

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL("denylist:jti:jti-1")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "unexpected ttl %v", ttl)
}

func TestDenylist_EntryExpiresWithToken(t *testing.T) {
	d, mr := setupDenylist(t)
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-2", time.Now().Add(time.Minute)))
	mr.FastForward(2 * time.Minute)

	revoked, err := d.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylist_AlreadyExpiredIsNoop(t *testing.T) {
	d, mr := setupDenylist(t)

	require.NoError(t, d.Revoke(context.Background(), "jti-3", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("denylist:jti:jti-3"))
}

func TestDenylist_RedisDown(t *testing.T) {
	d, mr := setupDenylist(t)
	require.NoError(t, d.Ping(context.Background()))

	mr.Close()

	_, err := d.IsRevoked(context.Background(), "jti-4")
	assert.Error(t, err)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "://nope")
	assert.Error(t, err)
}
