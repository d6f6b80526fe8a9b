package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_RevokeAndCheck(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_ExpiredEntryIsForgotten(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", -time.Minute))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_ConcurrentAccess(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = blacklist.Revoke(ctx, "shared", time.Hour)
		}
	}()
	for i := 0; i < 100; i++ {
		_, err := blacklist.IsRevoked(ctx, "shared")
		assert.NoError(t, err)
	}
	<-done
}
