package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

var errRedisNotInitialized = errors.New("redis not initialized")

const (
	catalogListTTL   = 10 * time.Minute
	chatbotAnswerTTL = 5 * time.Minute
)

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheCatalogList stores a distinct-value list (brands, categories) for the
// bike catalog endpoints.
func CacheCatalogList(ctx context.Context, name string, values []string) error {
	if RedisClient == nil {
		return errRedisNotInitialized
	}

	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("catalog:list:%s", name)
	return RedisClient.Set(ctx, key, data, catalogListTTL).Err()
}

// GetCachedCatalogList retrieves a cached distinct-value list.
func GetCachedCatalogList(ctx context.Context, name string) ([]string, error) {
	if RedisClient == nil {
		return nil, errRedisNotInitialized
	}

	key := fmt.Sprintf("catalog:list:%s", name)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}

	return values, nil
}

// CacheChatbotAnswer stores a computed recommendation answer for a chatbot
// query kind (mileage, price, power).
func CacheChatbotAnswer(ctx context.Context, kind, answer string) error {
	if RedisClient == nil {
		return errRedisNotInitialized
	}

	key := fmt.Sprintf("chatbot:answer:%s", kind)
	return RedisClient.Set(ctx, key, answer, chatbotAnswerTTL).Err()
}

// GetCachedChatbotAnswer retrieves a cached recommendation answer.
func GetCachedChatbotAnswer(ctx context.Context, kind string) (string, error) {
	if RedisClient == nil {
		return "", errRedisNotInitialized
	}

	key := fmt.Sprintf("chatbot:answer:%s", kind)
	return RedisClient.Get(ctx, key).Result()
}
