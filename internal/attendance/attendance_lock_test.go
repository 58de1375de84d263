package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	attendanceerrors "hr-ops/internal/attendance/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T) (*redisImportLock, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	l := NewRedisImportLock(rdb, time.Minute).(*redisImportLock)
	l.newToken = func() string { return "token-1" }
	return l, mock
}

func TestRedisImportLock_AcquireAndRelease(t *testing.T) {
	l, mock := newTestLock(t)

	mock.ExpectSetNX(ImportLockKey, "token-1", time.Minute).SetVal(true)
	mock.ExpectEvalSha(releaseScript.Hash(), []string{ImportLockKey}, "token-1").SetVal(int64(1))

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	release()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisImportLock_Held(t *testing.T) {
	l, mock := newTestLock(t)

	mock.ExpectSetNX(ImportLockKey, "token-1", time.Minute).SetVal(false)

	release, err := l.Acquire(context.Background())
	assert.Nil(t, release)
	assert.True(t, errors.Is(err, attendanceerrors.ErrImportInProgress))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisImportLock_RedisDown(t *testing.T) {
	l, mock := newTestLock(t)

	mock.ExpectSetNX(ImportLockKey, "token-1", time.Minute).SetErr(errors.New("connection refused"))

	_, err := l.Acquire(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, attendanceerrors.ErrImportInProgress))
}
