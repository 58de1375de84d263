package attendance

import (
	"context"

	"hr-ops/internal/shared/contextutil"

	"go.uber.org/zap"
)

// Observer receives import lifecycle notifications. Implementations must not
// block; they run inline with the import.
type Observer interface {
	ImportStarted(ctx context.Context, result ImportResult)
	StageCompleted(ctx context.Context, result ImportResult, stage Stage)
	LabelSkipped(ctx context.Context, result ImportResult, label string, err error)
	ArchiveFailed(ctx context.Context, result ImportResult, err error)
	ImportFinished(ctx context.Context, result ImportResult)
	ImportFailed(ctx context.Context, result ImportResult, err error)
}

type NopObserver struct{}

func (NopObserver) ImportStarted(context.Context, ImportResult)               {}
func (NopObserver) StageCompleted(context.Context, ImportResult, Stage)       {}
func (NopObserver) LabelSkipped(context.Context, ImportResult, string, error) {}
func (NopObserver) ArchiveFailed(context.Context, ImportResult, error)        {}
func (NopObserver) ImportFinished(context.Context, ImportResult)              {}
func (NopObserver) ImportFailed(context.Context, ImportResult, error)         {}

type multiObserver []Observer

// Observers fans every notification out to each non-nil observer in order.
func Observers(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) ImportStarted(ctx context.Context, r ImportResult) {
	for _, o := range m {
		o.ImportStarted(ctx, r)
	}
}

func (m multiObserver) StageCompleted(ctx context.Context, r ImportResult, stage Stage) {
	for _, o := range m {
		o.StageCompleted(ctx, r, stage)
	}
}

func (m multiObserver) LabelSkipped(ctx context.Context, r ImportResult, label string, err error) {
	for _, o := range m {
		o.LabelSkipped(ctx, r, label, err)
	}
}

func (m multiObserver) ArchiveFailed(ctx context.Context, r ImportResult, err error) {
	for _, o := range m {
		o.ArchiveFailed(ctx, r, err)
	}
}

func (m multiObserver) ImportFinished(ctx context.Context, r ImportResult) {
	for _, o := range m {
		o.ImportFinished(ctx, r)
	}
}

func (m multiObserver) ImportFailed(ctx context.Context, r ImportResult, err error) {
	for _, o := range m {
		o.ImportFailed(ctx, r, err)
	}
}

// LogObserver writes the import lifecycle to zap, preferring the request
// scoped logger when the context carries one.
type LogObserver struct {
	logger *zap.Logger
}

func NewLogObserver(logger ...*zap.Logger) *LogObserver {
	l := zap.L().Named("attendance.import")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.import")
	}
	return &LogObserver{logger: l}
}

func (o *LogObserver) log(ctx context.Context, r ImportResult) *zap.Logger {
	return contextutil.GetLogger(ctx, o.logger).With(
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("import_id", r.ImportID),
		zap.String("source", r.Source),
	)
}

func (o *LogObserver) ImportStarted(ctx context.Context, r ImportResult) {
	o.log(ctx, r).Info("attendance import started")
}

func (o *LogObserver) StageCompleted(ctx context.Context, r ImportResult, stage Stage) {
	o.log(ctx, r).Debug("attendance import stage completed", zap.String("stage", string(stage)))
}

func (o *LogObserver) LabelSkipped(ctx context.Context, r ImportResult, label string, err error) {
	o.log(ctx, r).Warn("employee label skipped, rows under it are excluded",
		zap.String("label", label),
		zap.Error(err),
	)
}

func (o *LogObserver) ArchiveFailed(ctx context.Context, r ImportResult, err error) {
	o.log(ctx, r).Warn("attendance file archival failed, imported data kept", zap.Error(err))
}

func (o *LogObserver) ImportFinished(ctx context.Context, r ImportResult) {
	fields := []zap.Field{
		zap.String("stage", string(r.Stage)),
		zap.Int("rows", r.Rows),
		zap.Int("excluded", r.Excluded),
		zap.Int("employees_created", r.EmployeesCreated),
		zap.Int("inserted", r.Inserted),
		zap.Int("updated", r.Updated),
		zap.Int("skipped", r.Skipped),
	}
	if !r.Range.IsZero() {
		fields = append(fields,
			zap.String("from", r.Range.From.Format(dateLayout)),
			zap.String("to", r.Range.To.Format(dateLayout)),
		)
	}
	if r.ArchivedPath != "" {
		fields = append(fields, zap.String("archived_path", r.ArchivedPath))
	}
	o.log(ctx, r).Info("attendance import finished", fields...)
}

func (o *LogObserver) ImportFailed(ctx context.Context, r ImportResult, err error) {
	o.log(ctx, r).Error("attendance import failed",
		zap.String("failed_stage", string(r.FailedStage)),
		zap.Error(err),
	)
}
