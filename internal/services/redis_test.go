package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) {
	s := miniredis.RunT(t)
	RedisClient = redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		RedisClient.Close()
		RedisClient = nil
	})
}

func TestCacheCatalogList(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	brands := []string{"Bajaj", "KTM", "TVS"}
	require.NoError(t, CacheCatalogList(ctx, "brands", brands))

	got, err := GetCachedCatalogList(ctx, "brands")
	require.NoError(t, err)
	assert.Equal(t, brands, got)
}

func TestGetCachedCatalogListMiss(t *testing.T) {
	setupTestRedis(t)

	_, err := GetCachedCatalogList(context.Background(), "categories")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestCacheChatbotAnswer(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	answer := "For best mileage, I recommend: Splendor Plus."
	require.NoError(t, CacheChatbotAnswer(ctx, "mileage", answer))

	got, err := GetCachedChatbotAnswer(ctx, "mileage")
	require.NoError(t, err)
	assert.Equal(t, answer, got)

	_, err = GetCachedChatbotAnswer(ctx, "performance")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestCacheWithoutClient(t *testing.T) {
	RedisClient = nil
	ctx := context.Background()

	assert.Error(t, CacheCatalogList(ctx, "brands", []string{"Bajaj"}))
	_, err := GetCachedCatalogList(ctx, "brands")
	assert.Error(t, err)

	assert.Error(t, CacheChatbotAnswer(ctx, "mileage", "x"))
	_, err = GetCachedChatbotAnswer(ctx, "mileage")
	assert.Error(t, err)
}
