package repository

import (
	"context"
	"testing"
	"time"

	"lendit/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisViewCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	cache := NewRedisViewCache(client, time.Hour)
	ctx := context.Background()

	t.Run("Miss", func(t *testing.T) {
		got, err := cache.GetItemView(ctx, 7)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		view := &models.ItemView{
			Item:        models.Item{ID: 7, Name: "Drill", Available: true},
			LastBooking: &models.BookingRef{ID: 3, BookerID: 2},
		}
		require.NoError(t, cache.SetItemView(ctx, view))

		got, err := cache.GetItemView(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Drill", got.Item.Name)
		require.NotNil(t, got.LastBooking)
		assert.Equal(t, int64(3), got.LastBooking.ID)
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, cache.InvalidateItem(ctx, 7))

		got, err := cache.GetItemView(ctx, 7)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("TTL", func(t *testing.T) {
		require.NoError(t, cache.SetItemView(ctx, &models.ItemView{Item: models.Item{ID: 8}}))

		s.FastForward(2 * time.Hour)

		got, err := cache.GetItemView(ctx, 8)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestPing(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	assert.NoError(t, Ping(context.Background(), client))

	s.Close()
	assert.Error(t, Ping(context.Background(), client))
}
