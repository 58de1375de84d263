package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hr-ops/internal/events"
	"hr-ops/internal/leave"
	"hr-ops/internal/timelog"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// A failed sync is retried in place; kafka-go moves past a message once a
// later offset is committed, so leaving it uncommitted would not redeliver it.
var (
	syncAttempts = 5
	retryBackoff = 2 * time.Second
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeAttendanceImported runs the Zoho timelog and leave syncs for the date
// span of every committed attendance import. Failed syncs are retried with
// backoff; a message is committed once both syncs succeed, when it can never
// succeed, or when the retries are exhausted.
func ConsumeAttendanceImported(
	ctx context.Context,
	reader MessageReader,
	timelogService timelog.Service,
	leaveService leave.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_imported")
	log.Info("attendance imported consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance imported consumer stopped")
				return
			}
			log.Error("fetch attendance imported message failed", zap.Error(err))
			continue
		}

		if err := handleWithRetry(ctx, msg, timelogService, leaveService, log); err != nil {
			if ctx.Err() != nil {
				log.Info("attendance imported consumer stopped")
				return
			}
			log.Error("sync for attendance import failed, retries exhausted",
				zap.Int64("offset", msg.Offset),
				zap.Int("attempts", syncAttempts),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance imported message failed", zap.Error(err))
		}
	}
}

func handleWithRetry(
	ctx context.Context,
	msg kafkago.Message,
	timelogService timelog.Service,
	leaveService leave.Service,
	log *zap.Logger,
) error {
	backoff := retryBackoff
	var err error
	for attempt := 1; attempt <= syncAttempts; attempt++ {
		if err = handleAttendanceImported(ctx, msg, timelogService, leaveService, log); err == nil {
			return nil
		}
		if attempt == syncAttempts {
			break
		}
		log.Warn("sync for attendance import failed, retrying",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
		backoff *= 2
	}
	return err
}

func handleAttendanceImported(
	ctx context.Context,
	msg kafkago.Message,
	timelogService timelog.Service,
	leaveService leave.Service,
	log *zap.Logger,
) error {
	var event events.AttendanceImportedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode attendance imported event failed", zap.Error(err))
		return nil
	}
	if event.EventType != "" && event.EventType != events.AttendanceImportedType {
		log.Warn("unexpected event type, skipping", zap.String("event_type", event.EventType))
		return nil
	}

	log = log.With(
		zap.String("import_id", event.ImportID),
		zap.String("request_id", event.RequestID),
	)
	from, to, err := eventRange(event)
	if err != nil {
		log.Error("attendance imported event has an invalid range", zap.Error(err))
		return nil
	}

	var errs []error
	tl, err := timelogService.Sync(ctx, from, to)
	if err != nil {
		errs = append(errs, fmt.Errorf("timelog sync: %w", err))
	} else {
		log.Info("timelogs synced for attendance import",
			zap.Int("inserted", tl.Inserted),
			zap.Int("skipped_existing", tl.SkippedExisting),
		)
	}

	lv, err := leaveService.Sync(ctx, from, to)
	if err != nil {
		errs = append(errs, fmt.Errorf("leave sync: %w", err))
	} else {
		log.Info("leaves synced for attendance import",
			zap.Int("inserted", lv.Inserted),
			zap.Int("skipped_existing", lv.SkippedExisting),
		)
	}
	return errors.Join(errs...)
}

func eventRange(event events.AttendanceImportedEvent) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, event.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from %q: %w", event.From, err)
	}
	to, err := time.Parse(dateLayout, event.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to %q: %w", event.To, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("range %s..%s is inverted", event.From, event.To)
	}
	return from, to, nil
}
