package utils

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Token blacklist for logout. Backed by redis when REDIS_ADDR is set so
// revocations survive restarts and are shared across instances; otherwise
// an in-process map with the same semantics.

const blacklistTTL = 24 * time.Hour

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
	redisClient       *redis.Client
)

// InitTokenStore connects the blacklist to redis if configured.
func InitTokenStore() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		ErrorLogger.Printf("redis unreachable at %s, falling back to in-memory blacklist: %v", addr, err)
		redisClient = nil
	}
}

func BlacklistToken(token string) {
	if redisClient != nil {
		if err := redisClient.Set(context.Background(), blacklistKey(token), 1, blacklistTTL).Err(); err == nil {
			return
		} else {
			ErrorLogger.Printf("redis blacklist write failed: %v", err)
		}
	}
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = time.Now().Add(blacklistTTL)
}

func IsTokenBlacklisted(token string) bool {
	if redisClient != nil {
		exists, err := redisClient.Exists(context.Background(), blacklistKey(token)).Result()
		if err == nil {
			return exists > 0
		}
		ErrorLogger.Printf("redis blacklist read failed: %v", err)
	}
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	if expiry, exists := blacklistedTokens[token]; exists {
		if time.Now().Before(expiry) {
			return true
		}
		delete(blacklistedTokens, token)
	}
	return false
}

func blacklistKey(token string) string {
	return "token:blacklist:" + token
}
