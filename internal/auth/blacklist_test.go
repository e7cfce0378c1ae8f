package auth

import (
	"context"
	"testing"
	"time"

	"go-chi-calculator/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBlacklistAddContainsExpire(t *testing.T) {
	client, srv := testutil.NewTestRedis(t)
	bl := NewRedisBlacklist(client)
	ctx := context.Background()

	ok, err := bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bl.Add(ctx, "jti-1", time.Minute))

	ok, err = bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, srv.Exists("blacklist:jti-1"))
	assert.Equal(t, time.Minute, srv.TTL("blacklist:jti-1"))

	srv.FastForward(2 * time.Minute)

	ok, err = bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBlacklistSkipsExpiredTokens(t *testing.T) {
	client, srv := testutil.NewTestRedis(t)
	bl := NewRedisBlacklist(client)

	require.NoError(t, bl.Add(context.Background(), "old", -time.Second))
	assert.False(t, srv.Exists("blacklist:old"))
}

func TestRedisBlacklistSurfacesConnectionErrors(t *testing.T) {
	client, srv := testutil.NewTestRedis(t)
	bl := NewRedisBlacklist(client)
	srv.Close()

	_, err := bl.Contains(context.Background(), "jti")
	assert.Error(t, err)
}
