package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistKeyIsStableAndOpaque(t *testing.T) {
	token := "header.payload.signature"

	key := blacklistKey(token)
	assert.True(t, strings.HasPrefix(key, blacklistPrefix))
	assert.NotContains(t, key, token)
	assert.Equal(t, key, blacklistKey(token))
	assert.NotEqual(t, key, blacklistKey(token+"x"))
}

func TestRevokeSkipsExpiredTokens(t *testing.T) {
	// client points nowhere; a non-positive ttl must return before dialing
	b := NewTokenBlacklist(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"}))
	assert.NoError(t, b.Revoke(context.Background(), "tok", 0))
	assert.NoError(t, b.Revoke(context.Background(), "tok", -time.Second))
}

func TestTokenBlacklistRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer c.Close()

	b := NewTokenBlacklist(c)
	ctx := context.Background()

	revoked, err := b.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "tok", time.Minute))
	revoked, err = b.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = b.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}
