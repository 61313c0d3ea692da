package utils

import (
	"context"
	"fmt"
	"time"

	"medibook/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient backs the submission idempotency keys.
var CacheClient *redis.Client

// InitCache connects the Redis cache client using the DB from AppConfig.
func InitCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("utils.InitCache: failed to connect to Redis: %w", err)
	}
	CacheClient = client
	return nil
}

// GetCacheClient returns the cache client, connecting on first use.
func GetCacheClient() (*redis.Client, error) {
	if CacheClient == nil {
		if err := InitCache(); err != nil {
			return nil, err
		}
	}
	return CacheClient, nil
}
