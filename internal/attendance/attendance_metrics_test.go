package attendance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hr-ops/internal/attendance"
	attendanceerrors "hr-ops/internal/attendance/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := attendance.NewMetricsObserver(reg)
	ctx := context.Background()

	ok := attendance.ImportResult{
		Stage:     attendance.StageReconciled,
		StartedAt: time.Now().Add(-time.Second),
		Inserted:  3,
		Updated:   2,
	}
	m.LabelSkipped(ctx, ok, "JohnDoe", errors.New("missing separator"))
	m.ArchiveFailed(ctx, ok, errors.New("denied"))
	m.ImportFinished(ctx, ok)
	m.ImportFailed(ctx, attendance.ImportResult{FailedStage: attendance.StageParsed}, attendanceerrors.ErrInvalidFormat)
	m.ImportFailed(ctx, attendance.ImportResult{FailedStage: attendance.StageReceived}, attendanceerrors.ErrImportInProgress)

	n, err := testutil.GatherAndCount(reg, "hr_attendance_import_total")
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	families, err := reg.Gather()
	assert.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if metric.GetCounter() == nil {
				continue
			}
			key := mf.GetName()
			for _, lp := range metric.GetLabel() {
				key += "," + lp.GetName() + "=" + lp.GetValue()
			}
			values[key] = metric.GetCounter().GetValue()
		}
	}

	assert.Equal(t, 1.0, values["hr_attendance_import_total,result=success,stage=reconciled"])
	assert.Equal(t, 1.0, values["hr_attendance_import_total,result=failure,stage=parsed"])
	assert.Equal(t, 1.0, values["hr_attendance_import_total,result=rejected,stage=received"])
	assert.Equal(t, 3.0, values["hr_attendance_import_records_total,action=inserted"])
	assert.Equal(t, 2.0, values["hr_attendance_import_records_total,action=updated"])
	assert.Equal(t, 1.0, values["hr_attendance_import_skipped_labels_total"])
	assert.Equal(t, 1.0, values["hr_attendance_import_archive_errors_total"])
}

func TestObservers_FanOut(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	obs := attendance.Observers(a, nil, b)

	obs.LabelSkipped(context.Background(), attendance.ImportResult{}, "x", nil)
	obs.ImportFinished(context.Background(), attendance.ImportResult{})

	assert.Equal(t, []string{"x"}, a.skipped)
	assert.Equal(t, []string{"x"}, b.skipped)
	assert.Equal(t, 1, a.finished)
	assert.Equal(t, 1, b.finished)
}
