package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestium/backend/internal/domain/shared"
)

func TestNewSubscription(t *testing.T) {
	orgID := uuid.New()

	t.Run("creates active subscription", func(t *testing.T) {
		endsAt := time.Now().AddDate(1, 0, 0)
		sub, err := NewSubscription(orgID, "Starter", &endsAt)

		require.NoError(t, err)
		assert.Equal(t, "starter", sub.PlanID)
		assert.Equal(t, SubscriptionStatusActive, sub.Status)
		assert.NotNil(t, sub.EndsAt)
	})

	t.Run("allows open-ended subscription", func(t *testing.T) {
		sub, err := NewSubscription(orgID, "pro", nil)

		require.NoError(t, err)
		assert.Nil(t, sub.EndsAt)
	})

	t.Run("fails with nil organization", func(t *testing.T) {
		sub, err := NewSubscription(uuid.Nil, "starter", nil)

		assert.Error(t, err)
		assert.Nil(t, sub)
	})

	t.Run("fails with empty plan", func(t *testing.T) {
		sub, err := NewSubscription(orgID, "  ", nil)

		assert.Error(t, err)
		assert.Nil(t, sub)
	})

	t.Run("fails with end date in the past", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		sub, err := NewSubscription(orgID, "starter", &past)

		assert.Error(t, err)
		assert.Nil(t, sub)
	})
}

func TestSubscription_IsExpired(t *testing.T) {
	now := time.Now()

	t.Run("open-ended never expires", func(t *testing.T) {
		sub, _ := NewSubscription(uuid.New(), "pro", nil)

		assert.False(t, sub.IsExpired(now.AddDate(10, 0, 0)))
	})

	t.Run("expiry follows the clock regardless of status", func(t *testing.T) {
		endsAt := now.Add(time.Hour)
		sub, _ := NewSubscription(uuid.New(), "starter", &endsAt)

		assert.False(t, sub.IsExpired(now))
		assert.True(t, sub.IsExpired(now.Add(2*time.Hour)))
		assert.True(t, sub.IsActive())
	})
}

func TestSubscription_Cancel(t *testing.T) {
	t.Run("cancels and closes the period", func(t *testing.T) {
		sub, _ := NewSubscription(uuid.New(), "starter", nil)

		require.NoError(t, sub.Cancel("  switching provider  "))
		assert.Equal(t, SubscriptionStatusCancelled, sub.Status)
		assert.Equal(t, "switching provider", sub.CancelReason)
		require.NotNil(t, sub.EndsAt)
		assert.WithinDuration(t, time.Now(), *sub.EndsAt, time.Second)
	})

	t.Run("pulls a future end date back to now", func(t *testing.T) {
		endsAt := time.Now().Add(time.Minute)
		sub, _ := NewSubscription(uuid.New(), "starter", &endsAt)

		require.NoError(t, sub.Cancel(""))
		assert.WithinDuration(t, time.Now(), *sub.EndsAt, 2*time.Second)
	})

	t.Run("rejects cancelling twice", func(t *testing.T) {
		sub, _ := NewSubscription(uuid.New(), "starter", nil)
		require.NoError(t, sub.Cancel("done"))

		assert.ErrorIs(t, sub.Cancel("again"), shared.ErrInvalidState)
	})
}

func TestSubscription_MarkExpired(t *testing.T) {
	t.Run("flips an active row past its end date", func(t *testing.T) {
		endsAt := time.Now().Add(time.Hour)
		sub, _ := NewSubscription(uuid.New(), "starter", &endsAt)

		require.NoError(t, sub.MarkExpired(endsAt.Add(time.Minute)))
		assert.Equal(t, SubscriptionStatusExpired, sub.Status)
	})

	t.Run("rejects flipping before the end date", func(t *testing.T) {
		endsAt := time.Now().Add(time.Hour)
		sub, _ := NewSubscription(uuid.New(), "starter", &endsAt)

		assert.Error(t, sub.MarkExpired(time.Now()))
		assert.Equal(t, SubscriptionStatusActive, sub.Status)
	})

	t.Run("rejects flipping a cancelled row", func(t *testing.T) {
		sub, _ := NewSubscription(uuid.New(), "starter", nil)
		require.NoError(t, sub.Cancel("done"))

		assert.ErrorIs(t, sub.MarkExpired(time.Now().Add(time.Hour)), shared.ErrInvalidState)
	})
}
