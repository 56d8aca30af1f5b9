package config

import "time"

// LoginRateLimitConfig bounds how many login attempts one client may make in
// a fixed window.  KeyStrategy is "ip" or "ip_identifier".
type LoginRateLimitConfig struct {
	Enabled     bool
	MaxAttempts int
	Window      time.Duration
	KeyStrategy string
	Prefix      string
}

func loadLoginRateLimitConfig(e env) LoginRateLimitConfig {
	c := LoginRateLimitConfig{
		Enabled:     e.flag("LOGIN_RATE_LIMIT_ENABLED", true),
		MaxAttempts: e.num("LOGIN_RATE_LIMIT_MAX", 10),
		Window:      e.dur("LOGIN_RATE_LIMIT_WINDOW", time.Minute),
		KeyStrategy: e.str("LOGIN_RATE_LIMIT_KEY_STRATEGY", "ip"),
		Prefix:      e.str("LOGIN_RATE_LIMIT_PREFIX", "rl:login"),
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	return c
}
