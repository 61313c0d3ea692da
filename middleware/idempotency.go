package middleware

import (
	"context"
	"net/http"
	"time"

	"medibook/models"
	"medibook/submission"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// IdempotencyStore remembers submission keys for a while.
type IdempotencyStore interface {
	// Reserve claims key for ttl and reports whether it was free.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisIdempotencyStore keeps keys in Redis with SETNX.
type RedisIdempotencyStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{Client: client, Prefix: "idempotency:"}
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.Client.SetNX(ctx, s.Prefix+key, time.Now().Unix(), ttl).Result()
}

// Idempotency answers 409 to a request whose Idempotency-Key was already seen
// within ttl. Requests without the header pass through. When the store is
// unreachable requests pass through too, and the appointment store's unique
// key catches the duplicate.
func Idempotency(store IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(submission.IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		logger := requestLogger(c).With(zap.String("idempotencyKey", key))
		fresh, err := store.Reserve(c.Request.Context(), key, ttl)
		if err != nil {
			logger.Warn("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			logger.Info("Duplicate submission rejected")
			c.AbortWithStatusJSON(http.StatusConflict, models.SubmissionResult{
				Success: false,
				Error:   "duplicate submission",
			})
			return
		}
		c.Next()
	}
}

func requestLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}
