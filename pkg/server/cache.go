package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin redis wrapper for response payloads that are expensive
// to rebuild on every request (category counts mostly). Misses and redis
// errors look the same to callers, they just recompute.
type Cache struct {
	client *redis.Client
	ctx    context.Context
}

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: rdb, ctx: context.Background()}
}

func (c *Cache) Get(key string, out any) error {
	data, err := c.client.Get(c.ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), out)
}

func (c *Cache) Set(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, key, data, expiration).Err()
}

func (c *Cache) Invalidate(keys ...string) error {
	return c.client.Del(c.ctx, keys...).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
