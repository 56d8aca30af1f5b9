package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/da-dashboard/internal/config"
)

// captureWriter copies the response body while forwarding it to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// truncated reports whether the body outgrew the capture limit.
func (cw *captureWriter) truncated() bool {
	return cw.limit > 0 && cw.size > cw.limit
}

func statsCacheKey(cfg config.StatsCacheConfig, c echo.Context) string {
	key := cfg.Prefix + ":" + c.Path()
	if q := c.Request().URL.RawQuery; q != "" {
		key += "?" + q
	}
	return key
}

// cachedStats is a stored 200 response, kept as a Redis hash with
// content_type and body fields.
type cachedStats struct {
	contentType string
	body        []byte
}

func readCachedStats(ctx context.Context, rdb *redis.Client, key string) (cachedStats, bool, error) {
	fields, err := rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return cachedStats{}, false, err
	}
	body, ok := fields["body"]
	if !ok {
		return cachedStats{}, false, nil
	}
	return cachedStats{contentType: fields["content_type"], body: []byte(body)}, true, nil
}

func writeCachedStats(ctx context.Context, rdb *redis.Client, key string, s cachedStats, ttl time.Duration) error {
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "content_type", s.contentType, "body", s.body)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// StatsCache serves GET responses from Redis for cfg.TTL so dashboards
// polling the public statistics share one database round trip per window.
// Only 200 responses are stored.  Without Redis it is a no-op.
func StatsCache(cfg config.StatsCacheConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if log == nil {
		log = zap.NewNop()
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := statsCacheKey(cfg, c)

			cached, hit, err := readCachedStats(ctx, rdb, key)
			if err != nil {
				log.Warn("stats cache read failed", zap.Error(err))
			}
			if hit {
				if cached.contentType != "" {
					c.Response().Header().Set(echo.HeaderContentType, cached.contentType)
				}
				c.Response().Header().Set("X-Cache", "HIT")
				c.Response().WriteHeader(http.StatusOK)
				_, err = c.Response().Write(cached.body)
				return err
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated() {
				return nil
			}

			entry := cachedStats{
				contentType: c.Response().Header().Get(echo.HeaderContentType),
				body:        cw.buf.Bytes(),
			}
			// The request context may already be done once the body is written.
			wctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := writeCachedStats(wctx, rdb, key, entry, cfg.TTL); err != nil {
				log.Warn("stats cache write failed", zap.Error(err))
			}
			return nil
		}
	}
}
