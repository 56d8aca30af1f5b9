package config

// Redis backs the login rate limiter and the public statistics cache.  Both
// degrade to pass-through when no client is available, so a failed
// connection at startup is not fatal.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings.  Addr is host:port; REDIS_HOST and
// REDIS_PORT together take precedence over REDIS_ADDR.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TLS      bool
}

func loadRedisConfig(e env) RedisConfig {
	addr := e.str("REDIS_ADDR", "localhost:6379")
	if h, p := e.str("REDIS_HOST", ""), e.str("REDIS_PORT", ""); h != "" && p != "" {
		addr = h + ":" + p
	}
	return RedisConfig{
		Enabled:  e.flag("REDIS_ENABLED", true),
		Addr:     addr,
		Password: e.str("REDIS_PASSWORD", ""),
		DB:       e.num("REDIS_DB", 0),
		TLS:      e.flag("REDIS_TLS", false),
	}
}

// NewRedisClient returns a connected client, or nil when Redis is disabled
// or unreachable.  Callers treat nil as "feature off".
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
