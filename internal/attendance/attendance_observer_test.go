package attendance_test

import (
	"context"
	"errors"
	"testing"

	"hr-ops/internal/attendance"
	"hr-ops/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	o := attendance.NewLogObserver(zap.New(core))
	ctx := contextutil.WithRequestID(context.Background(), "req-9")

	r := attendance.ImportResult{ImportID: "imp-1", Source: "jan.xls", Stage: attendance.StageReconciled, Inserted: 3}
	o.LabelSkipped(ctx, r, "JohnDoe", errors.New("missing separator"))
	o.ImportFinished(ctx, r)

	warn := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warn, 1)
	assert.Equal(t, "JohnDoe", warn[0].ContextMap()["label"])
	assert.Equal(t, "req-9", warn[0].ContextMap()["request_id"])

	done := logs.FilterMessage("attendance import finished").All()
	require.Len(t, done, 1)
	assert.Equal(t, int64(3), done[0].ContextMap()["inserted"])
	assert.Equal(t, "imp-1", done[0].ContextMap()["import_id"])
}
