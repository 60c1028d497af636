// Package redis connects to the Redis instance backing the shared tenant
// resolution cache.
//
// Config is populated from environment variables via github.com/caarlos0/env;
// Connect retries until the server answers and Healthcheck exposes a probe
// for health endpoints. The returned client plugs straight into
// tenant.NewRedisCache.
package redis
