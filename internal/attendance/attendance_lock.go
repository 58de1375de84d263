package attendance

import (
	"context"
	"fmt"
	"time"

	attendanceerrors "hr-ops/internal/attendance/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const ImportLockKey = "attendance:import:lock"

type ImportLock interface {
	// Acquire returns ErrImportInProgress when another import holds the lock.
	Acquire(ctx context.Context) (release func(), err error)
}

// Only the holder's token may delete the key, so a lock that expired and was
// retaken by another import is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisImportLock struct {
	rdb      *redis.Client
	key      string
	ttl      time.Duration
	newToken func() string
	logger   *zap.Logger
}

func NewRedisImportLock(rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) ImportLock {
	l := zap.L().Named("attendance.lock")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.lock")
	}
	return &redisImportLock{
		rdb:      rdb,
		key:      ImportLockKey,
		ttl:      ttl,
		newToken: uuid.NewString,
		logger:   l,
	}
}

func (l *redisImportLock) Acquire(ctx context.Context) (func(), error) {
	token := l.newToken()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return nil, attendanceerrors.ErrImportInProgress
	}

	release := func() {
		// The request context may already be cancelled by the time we release.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.rdb, []string{l.key}, token).Err(); err != nil {
			l.logger.Warn("release import lock failed", zap.String("key", l.key), zap.Error(err))
		}
	}
	return release, nil
}
