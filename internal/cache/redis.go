// Package cache wraps an optional Redis connection. Every helper degrades
// to a no-op when Redis is unavailable so the server never depends on it.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	taxSettingKey = "tax:setting"
	taxSettingTTL = time.Minute
	authTTL       = 15 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetTaxSetting returns the cached tax policy JSON, if present.
func GetTaxSetting(ctx context.Context, dst interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, taxSettingKey).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// SetTaxSetting caches the tax policy for a short window. The invoice
// engine reads the policy on every create, so even a small TTL removes
// most of the read load.
func SetTaxSetting(ctx context.Context, v interface{}) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	client.Set(ctx, taxSettingKey, raw, taxSettingTTL)
}

// InvalidateTaxSetting drops the cached policy after an update.
func InvalidateTaxSetting(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, taxSettingKey)
}

func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid
func GetCachedAuth(ctx context.Context, email, password string) (int, bool) {
	if client == nil {
		return 0, false
	}
	userID, err := client.Get(ctx, hashCredentials(email, password)).Int()
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CacheAuth caches valid credentials so repeat logins skip bcrypt
func CacheAuth(ctx context.Context, email, password string, userID int) {
	if client == nil {
		return
	}
	client.Set(ctx, hashCredentials(email, password), userID, authTTL)
}
