package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"hr-ops/internal/events"
	"hr-ops/internal/leave"
	"hr-ops/internal/timelog"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTimelogService struct {
	syncFn func(ctx context.Context, from, to time.Time) (timelog.SyncResult, error)
	calls  int
}

func (f *fakeTimelogService) Sync(ctx context.Context, from, to time.Time) (timelog.SyncResult, error) {
	f.calls++
	if f.syncFn != nil {
		return f.syncFn(ctx, from, to)
	}
	return timelog.SyncResult{}, nil
}

type fakeLeaveService struct {
	syncFn func(ctx context.Context, from, to time.Time) (leave.SyncResult, error)
	calls  int
}

func (f *fakeLeaveService) Sync(ctx context.Context, from, to time.Time) (leave.SyncResult, error) {
	f.calls++
	if f.syncFn != nil {
		return f.syncFn(ctx, from, to)
	}
	return leave.SyncResult{}, nil
}

// fakeReader hands out queued messages, then blocks until the context ends.
type fakeReader struct {
	queue     []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.queue) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func message(offset int64, value string) kafkago.Message {
	return kafkago.Message{Offset: offset, Value: []byte(value)}
}

func withFastRetry(t *testing.T, attempts int) {
	t.Helper()
	prevAttempts, prevBackoff := syncAttempts, retryBackoff
	syncAttempts, retryBackoff = attempts, 0
	t.Cleanup(func() {
		syncAttempts, retryBackoff = prevAttempts, prevBackoff
	})
}

func TestConsumeAttendanceImported(t *testing.T) {
	withFastRetry(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}

	timelogs := &fakeTimelogService{syncFn: func(_ context.Context, from, to time.Time) (timelog.SyncResult, error) {
		if from.Equal(day("2025-02-01")) {
			return timelog.SyncResult{}, errors.New("zoho unavailable")
		}
		assert.Equal(t, day("2025-01-01"), from)
		assert.Equal(t, day("2025-01-31"), to)
		return timelog.SyncResult{Inserted: 4}, nil
	}}
	leaves := &fakeLeaveService{}

	reader := &fakeReader{
		cancel: cancel,
		queue: []kafkago.Message{
			message(1, `{"event_type":"attendance.imported","import_id":"a","from":"2025-01-01","to":"2025-01-31"}`),
			message(2, `not json`),
			message(3, `{"event_type":"attendance.imported","import_id":"b","from":"2025-01-31","to":"2025-01-01"}`),
			message(4, `{"event_type":"attendance.imported","import_id":"c","from":"2025-02-01","to":"2025-02-02"}`),
			message(5, `{"event_type":"employee.created"}`),
		},
	}

	ConsumeAttendanceImported(ctx, reader, timelogs, leaves, zap.NewNop())

	offsets := make([]int64, 0, len(reader.committed))
	for _, m := range reader.committed {
		offsets = append(offsets, m.Offset)
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, offsets, "exhausted retries do not block the partition")
	assert.Equal(t, 1+3, timelogs.calls)
	assert.Equal(t, 1+3, leaves.calls, "leave sync still runs when timelog sync fails")
}

func TestConsumeAttendanceImported_RetriesFailedSync(t *testing.T) {
	withFastRetry(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	timelogs := &fakeTimelogService{}
	timelogs.syncFn = func(context.Context, time.Time, time.Time) (timelog.SyncResult, error) {
		if timelogs.calls == 1 {
			return timelog.SyncResult{}, errors.New("zoho unavailable")
		}
		return timelog.SyncResult{Inserted: 1}, nil
	}
	leaves := &fakeLeaveService{}

	reader := &fakeReader{
		cancel: cancel,
		queue: []kafkago.Message{
			message(7, `{"event_type":"attendance.imported","import_id":"a","from":"2025-03-01","to":"2025-03-31"}`),
		},
	}

	ConsumeAttendanceImported(ctx, reader, timelogs, leaves, zap.NewNop())

	require.Len(t, reader.committed, 1)
	assert.Equal(t, int64(7), reader.committed[0].Offset)
	assert.Equal(t, 2, timelogs.calls, "second attempt succeeds")
	assert.Equal(t, 2, leaves.calls)
}

func TestConsumeAttendanceImported_StopsRetryingOnShutdown(t *testing.T) {
	prevAttempts, prevBackoff := syncAttempts, retryBackoff
	syncAttempts, retryBackoff = 5, time.Hour
	t.Cleanup(func() { syncAttempts, retryBackoff = prevAttempts, prevBackoff })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	timelogs := &fakeTimelogService{syncFn: func(context.Context, time.Time, time.Time) (timelog.SyncResult, error) {
		cancel()
		return timelog.SyncResult{}, errors.New("zoho unavailable")
	}}
	reader := &fakeReader{
		cancel: cancel,
		queue: []kafkago.Message{
			message(9, `{"event_type":"attendance.imported","import_id":"a","from":"2025-03-01","to":"2025-03-31"}`),
		},
	}

	ConsumeAttendanceImported(ctx, reader, timelogs, &fakeLeaveService{}, zap.NewNop())

	assert.Empty(t, reader.committed, "message is redelivered after restart")
	assert.Equal(t, 1, timelogs.calls)
}

func TestEventRange(t *testing.T) {
	_, _, err := eventRange(eventFor("2025-01-01", "bad"))
	require.Error(t, err)

	from, to, err := eventRange(eventFor("2025-01-01", "2025-01-01"))
	require.NoError(t, err)
	assert.True(t, from.Equal(to))
}

func eventFor(from, to string) events.AttendanceImportedEvent {
	return events.AttendanceImportedEvent{EventType: events.AttendanceImportedType, From: from, To: to}
}
