package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hr-ops/internal/shared/apperror"
	"hr-ops/internal/shared/contextutil"
	"hr-ops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	idempotencyLockTTL = 5 * time.Minute
)

type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response for a repeated POST carrying the
// same Idempotency-Key. Only 2xx responses are stored. Requests without the
// header pass through, and so does everything when Redis is unreachable.
func Idempotency(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := contextutil.GetLogger(ctx, logger)
		cacheKey := fmt.Sprintf("idemp:%s:%s", c.FullPath(), idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(ctx, cacheKey).Bytes()
		switch {
		case err == nil:
			var cached cachedResponse
			if jsonErr := json.Unmarshal(val, &cached); jsonErr == nil {
				c.Header(ReplayedHeader, "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
			log.Warn("discarding unreadable idempotency entry", zap.String("key", cacheKey))
		case !errors.Is(err, redis.Nil):
			log.Warn("idempotency lookup failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}

		// A short-lived lock stops a retry from running while the first
		// request is still in flight.
		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, apperror.CodeConflict,
				"a request with this idempotency key is still being processed", nil)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if status := rec.Status(); status >= 200 && status < 300 {
			payload, err := json.Marshal(cachedResponse{Status: status, Body: rec.buf.Bytes()})
			if err == nil {
				err = rdb.Set(bg, cacheKey, payload, ttl).Err()
			}
			if err != nil {
				log.Warn("store idempotent response failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
		if err := rdb.Del(bg, lockKey).Err(); err != nil {
			log.Warn("release idempotency lock failed", zap.String("key", lockKey), zap.Error(err))
		}
	}
}
