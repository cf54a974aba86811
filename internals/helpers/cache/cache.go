// Package cache wraps an optional Redis client. A nil *Cache is valid and
// behaves as an always-missing cache, so callers never branch on configuration.
package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"gestionabsence_backend/internals/configs"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
	prefix string
}

// NewFromEnv returns nil when REDIS_ADDR is empty or unreachable.
func NewFromEnv() *Cache {
	addr := configs.GetEnv("REDIS_ADDR")
	if addr == "" {
		log.Println("[INFO] REDIS_ADDR not set, report cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: configs.GetEnv("REDIS_PASSWORD"),
		DB:       configs.GetInt("REDIS_DB", 0),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] redis ping failed (%v), report cache disabled", err)
		_ = client.Close()
		return nil
	}
	log.Printf("✅ Redis connected (%s)", addr)
	return New(client, configs.GetEnv("REDIS_PREFIX", "gestionabsence:"))
}

func New(client *redis.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

// GetJSON reports whether key was found and decoded into dst.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[WARN] cache get %s: %v", key, err)
		}
		return false
	}
	if err := sonic.Unmarshal(raw, dst); err != nil {
		log.Printf("[WARN] cache decode %s: %v", key, err)
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		log.Printf("[WARN] cache encode %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		log.Printf("[WARN] cache set %s: %v", key, err)
	}
}

// DeletePrefix removes every key under prefix using SCAN, never KEYS.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, c.prefix+prefix+"*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[WARN] cache scan %s: %v", prefix, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[WARN] cache delete %s: %v", prefix, err)
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
