package handshakememory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedora/github-connect/internal/serviceerr"
)

func TestStore(t *testing.T) {
	ctx := t.Context()

	t.Run("set then get", func(t *testing.T) {
		s := NewStore(time.Minute, time.Minute)

		require.NoError(t, s.Set(ctx, "k", "v", 0))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("missing key is not found", func(t *testing.T) {
		s := NewStore(time.Minute, time.Minute)

		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		s := NewStore(time.Minute, time.Minute)
		require.NoError(t, s.Set(ctx, "k", "v", 0))

		require.NoError(t, s.Delete(ctx, "k"))

		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("delete of a missing key succeeds", func(t *testing.T) {
		s := NewStore(time.Minute, time.Minute)

		assert.NoError(t, s.Delete(ctx, "missing"))
	})

	t.Run("entries expire after their ttl", func(t *testing.T) {
		s := NewStore(time.Hour, time.Hour)
		require.NoError(t, s.Set(ctx, "k", "v", 10*time.Millisecond))

		assert.Eventually(t, func() bool {
			_, err := s.Get(ctx, "k")
			return err != nil
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("non string values are rejected", func(t *testing.T) {
		s := NewStore(time.Minute, time.Minute)
		s.cache.Set("k", 42, 0)

		_, err := s.Get(ctx, "k")
		require.Error(t, err)
		assert.NotErrorIs(t, err, serviceerr.ErrNotFound)
	})
}
