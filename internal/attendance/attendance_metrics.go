package attendance

import (
	"context"
	"errors"
	"time"

	attendanceerrors "hr-ops/internal/attendance/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsObserver struct {
	imports       *prometheus.CounterVec
	records       *prometheus.CounterVec
	skippedLabels prometheus.Counter
	archiveErrors prometheus.Counter
	duration      *prometheus.HistogramVec
}

// NewMetricsObserver registers the import collectors on reg.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	factory := promauto.With(reg)
	return &MetricsObserver{
		imports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hr",
			Subsystem: "attendance_import",
			Name:      "total",
			Help:      "Attendance imports by outcome and the stage they ended in.",
		}, []string{"result", "stage"}),
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hr",
			Subsystem: "attendance_import",
			Name:      "records_total",
			Help:      "Attendance records written by committed imports.",
		}, []string{"action"}),
		skippedLabels: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hr",
			Subsystem: "attendance_import",
			Name:      "skipped_labels_total",
			Help:      "Employee labels that could not be parsed.",
		}),
		archiveErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hr",
			Subsystem: "attendance_import",
			Name:      "archive_errors_total",
			Help:      "Source files that could not be moved to the processed folder.",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hr",
			Subsystem: "attendance_import",
			Name:      "duration_seconds",
			Help:      "Wall time of attendance imports.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"result"}),
	}
}

func (m *MetricsObserver) ImportStarted(context.Context, ImportResult)         {}
func (m *MetricsObserver) StageCompleted(context.Context, ImportResult, Stage) {}

func (m *MetricsObserver) LabelSkipped(context.Context, ImportResult, string, error) {
	m.skippedLabels.Inc()
}

func (m *MetricsObserver) ArchiveFailed(context.Context, ImportResult, error) {
	m.archiveErrors.Inc()
}

func (m *MetricsObserver) ImportFinished(_ context.Context, r ImportResult) {
	m.imports.WithLabelValues("success", string(r.Stage)).Inc()
	m.records.WithLabelValues("inserted").Add(float64(r.Inserted))
	m.records.WithLabelValues("updated").Add(float64(r.Updated))
	m.records.WithLabelValues("skipped").Add(float64(r.Skipped))
	m.observeDuration("success", r)
}

func (m *MetricsObserver) ImportFailed(_ context.Context, r ImportResult, err error) {
	result := "failure"
	if errors.Is(err, attendanceerrors.ErrImportInProgress) {
		result = "rejected"
	}
	m.imports.WithLabelValues(result, string(r.FailedStage)).Inc()
	m.observeDuration(result, r)
}

func (m *MetricsObserver) observeDuration(result string, r ImportResult) {
	if r.StartedAt.IsZero() {
		return
	}
	m.duration.WithLabelValues(result).Observe(time.Since(r.StartedAt).Seconds())
}
