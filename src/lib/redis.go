package lib

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// CacheJSON stores a JSON-encoded value under the key with a TTL.
func CacheJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	rdb := GetRedisClient()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// GetCachedJSON loads a cached value into dest. The bool reports a
// cache hit; a miss is not an error.
func GetCachedJSON(ctx context.Context, key string, dest any) (bool, error) {
	rdb := GetRedisClient()
	val, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func InvalidateCache(ctx context.Context, keys ...string) {
	rdb := GetRedisClient()
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[redis] Error deleting keys: %s\n", err.Error())
	}
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}
