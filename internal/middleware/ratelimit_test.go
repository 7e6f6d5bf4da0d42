package middleware

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therabridge/therabridge-backend/internal/database"
)

func TestUnblockIP(t *testing.T) {
	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	const ip = "203.0.113.7"
	require.NoError(t, database.RedisClient.Set(context.Background(), BlockedIPKeyPrefix+ip, "1", BlockedIPDuration).Err())

	blocked, err := IsIPBlocked(ip)
	require.NoError(t, err)
	assert.True(t, blocked)

	require.NoError(t, UnblockIP(ip))

	blocked, err = IsIPBlocked(ip)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestIsIPBlockedUnknownIP(t *testing.T) {
	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	blocked, err := IsIPBlocked("198.51.100.9")
	require.NoError(t, err)
	assert.False(t, blocked)
}
