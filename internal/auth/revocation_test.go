package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisRevocationList, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return NewRedisRevocationList(client), mr, cleanup
}

func TestRevoke_SetsTTLUntilExpiry(t *testing.T) {
	list, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	err := list.Revoke(ctx, "jti-1", time.Now().Add(30*time.Minute))
	require.NoError(t, err)

	ttl := mr.TTL(revokedKey("jti-1"))
	assert.True(t, ttl > 29*time.Minute, "ttl should follow the token expiry")
	assert.True(t, ttl <= 30*time.Minute)

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevoke_ExpiredTokenIsSkipped(t *testing.T) {
	list, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	err := list.Revoke(context.Background(), "jti-2", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	assert.False(t, mr.Exists(revokedKey("jti-2")))
}

func TestIsRevoked_Unknown(t *testing.T) {
	list, _, cleanup := setupTestRedis(t)
	defer cleanup()

	revoked, err := list.IsRevoked(context.Background(), "jti-3")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokedEntryExpires(t *testing.T) {
	list, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-4", time.Now().Add(time.Minute)))
	mr.FastForward(2 * time.Minute)

	revoked, err := list.IsRevoked(ctx, "jti-4")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokedKey_Format(t *testing.T) {
	assert.Equal(t, "auth:revoked:abc", revokedKey("abc"))
}
