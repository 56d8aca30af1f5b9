package config

import "time"

// StatsCacheConfig defines the Redis response cache placed in front of the
// public statistics endpoint.  The TTL defaults to the dashboard's polling
// interval so every poll inside one window sees the same payload.
type StatsCacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

func loadStatsCacheConfig(e env) StatsCacheConfig {
	c := StatsCacheConfig{
		Enabled:      e.flag("STATS_CACHE_ENABLED", true),
		TTL:          e.dur("STATS_CACHE_TTL", 30*time.Second),
		Prefix:       e.str("STATS_CACHE_PREFIX", "cache:stats"),
		MaxBodyBytes: e.num("STATS_CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	return c
}
