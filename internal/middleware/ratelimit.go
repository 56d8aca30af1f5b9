package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/da-dashboard/internal/config"
)

// loginWindowScript counts hits in a fixed window.  The first hit starts
// the window; the reply is {count, remaining window in ms}.
var loginWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// maxPeekBytes bounds how much of a login body is read to build the key.
const maxPeekBytes = 64 << 10

// LoginRateLimit caps login attempts per client in a fixed window.  With no
// Redis client, or when Redis fails, requests pass through.
func LoginRateLimit(cfg config.LoginRateLimitConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if log == nil {
		log = zap.NewNop()
	}
	windowMs := cfg.Window.Milliseconds()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := loginRateKey(cfg, c)

			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			res, err := loginWindowScript.Run(ctx, rdb, []string{key}, windowMs).Result()
			cancel()
			if err != nil {
				log.Warn("login rate limit unavailable", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			vals, ok := res.([]interface{})
			if !ok || len(vals) < 2 {
				log.Warn("unexpected rate limit script result", zap.String("key", key), zap.Any("result", res))
				return next(c)
			}
			count, _ := vals[0].(int64)
			ttlMs, _ := vals[1].(int64)
			if ttlMs < 0 {
				ttlMs = windowMs
			}

			remaining := cfg.MaxAttempts - int(count)
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxAttempts))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(count) > cfg.MaxAttempts {
				secs := int(math.Ceil(float64(ttlMs) / 1000.0))
				h.Set("Retry-After", strconv.Itoa(secs))
				log.Info("login rate limited", zap.String("key", key), zap.Int64("count", count))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many login attempts"})
			}
			return next(c)
		}
	}
}

func loginRateKey(cfg config.LoginRateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	parts := []string{cfg.Prefix, "ip", ip}
	if strings.ToLower(cfg.KeyStrategy) == "ip_identifier" {
		if id := peekIdentifier(c); id != "" {
			parts = append(parts, "id", strings.ToLower(id))
		}
	}
	return strings.Join(parts, ":")
}

// peekIdentifier reads the login identifier from the JSON body and
// restores the body for the handler.
func peekIdentifier(c echo.Context) string {
	req := c.Request()
	if req.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, maxPeekBytes))
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), req.Body))

	var fields struct {
		Identifier  string `json:"identifier"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if json.Unmarshal(body, &fields) != nil {
		return ""
	}
	if fields.Identifier != "" {
		return strings.TrimSpace(fields.Identifier)
	}
	return strings.TrimSpace(fields.PhoneNumber)
}
