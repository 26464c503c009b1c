// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"fieldops/config"

	"github.com/go-redis/redis/v8"
)

var (
	// HoldCacheClient is the dedicated client for slot-hold caching.
	HoldCacheClient *redis.Client
	// LockCacheClient is the dedicated client for worker run-locks.
	LockCacheClient *redis.Client
)

// InitHoldCache initializes the Redis client backing the reservation fast path.
func InitHoldCache() {
	HoldCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisHoldDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := HoldCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Hold Cache): %v", err)
	}
}

// GetHoldCacheClient returns the hold cache client.
func GetHoldCacheClient() *redis.Client {
	if HoldCacheClient == nil {
		InitHoldCache()
	}
	return HoldCacheClient
}

// InitLockCache initializes the Redis client used for escalation run-locks.
func InitLockCache() {
	LockCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := LockCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Lock Cache): %v", err)
	}
}

// GetLockCacheClient returns the run-lock client.
func GetLockCacheClient() *redis.Client {
	if LockCacheClient == nil {
		InitLockCache()
	}
	return LockCacheClient
}

// InitRedis initializes all Redis clients at startup.
func InitRedis() {
	InitHoldCache()
	InitLockCache()
}
