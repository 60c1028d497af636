package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	redisconn "github.com/dmitrymomot/tenantkit/pkg/redis"
)

// redisCache stores resolved tenants in Redis so resolution results are
// shared across application instances.
type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed tenant cache. Entries are stored as
// JSON under keyPrefix+host; an empty prefix defaults to "tenant:".
func NewRedisCache(client *redis.Client, keyPrefix string) Cache {
	if keyPrefix == "" {
		keyPrefix = "tenant:"
	}
	return &redisCache{client: client, prefix: keyPrefix}
}

// NewRedisCacheFromConfig connects to Redis per cfg and returns a cache over
// the resulting client. Closing the cache closes the client.
func NewRedisCacheFromConfig(ctx context.Context, cfg redisconn.Config, keyPrefix string) (Cache, error) {
	client, err := redisconn.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisCache(client, keyPrefix), nil
}

func (c *redisCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		// Cache misses and transport errors both fall through to the store.
		return nil, false
	}

	var t Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		c.client.Del(ctx, c.prefix+key)
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, key string, t *Tenant, ttl time.Duration) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.prefix+key, data, ttl)
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	c.client.Del(ctx, c.prefix+key)
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
