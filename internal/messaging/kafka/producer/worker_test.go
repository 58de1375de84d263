package producer

import (
	"context"
	"errors"
	"testing"

	"hr-ops/internal/messaging/kafka"
	kafkaMock "hr-ops/internal/messaging/kafka/mock"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	writeFn func(ctx context.Context, msgs ...kafkago.Message) error
	written []kafkago.Message
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if f.writeFn != nil {
		if err := f.writeFn(ctx, msgs...); err != nil {
			return err
		}
	}
	f.written = append(f.written, msgs...)
	return nil
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProcessPendingEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)

	sent := kafka.OutboxEvent{
		ID:            "evt-1",
		RequestID:     "req-1",
		AggregateType: "attendance_import",
		AggregateID:   "imp-1",
		EventType:     "attendance.imported",
		Topic:         "hr.attendance.imported.v1",
		Payload:       []byte(`{"import_id":"imp-1"}`),
	}
	broken := sent
	broken.ID = "evt-2"
	broken.AggregateID = "imp-2"

	repo.EXPECT().ListPending(gomock.Any(), pendingBatchSize).Return([]kafka.OutboxEvent{sent, broken}, nil)
	repo.EXPECT().MarkSent(gomock.Any(), "evt-1").Return(nil)
	repo.EXPECT().MarkFailed(gomock.Any(), "evt-2", "broker unavailable").Return(nil)

	writer := &fakeWriter{writeFn: func(_ context.Context, msgs ...kafkago.Message) error {
		if string(msgs[0].Key) == "imp-2" {
			return errors.New("broker unavailable")
		}
		return nil
	}}

	err := processPendingEvents(context.Background(), repo, writer, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, writer.written, 1)
	msg := writer.written[0]
	assert.Equal(t, "hr.attendance.imported.v1", msg.Topic)
	assert.Equal(t, "imp-1", string(msg.Key))
	assert.Equal(t, "attendance.imported", headerValue(msg, "event_type"))
	assert.Equal(t, "req-1", headerValue(msg, "request_id"))
}

func TestProcessPendingEvents_ListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ListPending(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	err := processPendingEvents(context.Background(), repo, &fakeWriter{}, zap.NewNop())
	assert.EqualError(t, err, "db down")
}

func TestPublishEvent_OmitsEmptyRequestID(t *testing.T) {
	writer := &fakeWriter{}
	err := publishEvent(context.Background(), writer, kafka.OutboxEvent{Topic: "t", AggregateID: "a", EventType: "e"})
	require.NoError(t, err)
	require.Len(t, writer.written, 1)
	assert.Len(t, writer.written[0].Headers, 2)
}
