package attendance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hr-ops/internal/attendance"
	attendanceerrors "hr-ops/internal/attendance/errors"
	attendanceMock "hr-ops/internal/attendance/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestReconciler_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input does no io", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := attendanceMock.NewMockRepository(ctrl)
		r := attendance.NewReconciler(repo)

		res, err := r.Reconcile(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, attendance.ReconcileResult{}, res)
	})

	t.Run("inserts new keys in one batch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := attendanceMock.NewMockRepository(ctrl)
		r := attendance.NewReconciler(repo)

		rows := []attendance.Row{
			{EmployeeID: "101", Date: day(2), InTime: strPtr("09:00:00")},
			{EmployeeID: "101", Date: day(1), InTime: strPtr("09:10:00")},
			{EmployeeID: "101", Date: day(3)},
		}

		repo.EXPECT().FindInDateRange(ctx, day(1), day(3)).Return(nil, nil)
		repo.EXPECT().CreateBatch(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, batch []attendance.DailyAttendance) error {
				require.Len(t, batch, 3)
				assert.Equal(t, "101", batch[0].EmployeeID)
				assert.True(t, day(2).Equal(batch[0].AttendanceDate))
				assert.Nil(t, batch[2].InTime)
				return nil
			})

		res, err := r.Reconcile(ctx, nil, rows)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Inserted)
		assert.Equal(t, 0, res.Updated)
		assert.True(t, day(1).Equal(res.Range.From))
		assert.True(t, day(3).Equal(res.Range.To))
	})

	t.Run("existing key is updated with the new last out", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := attendanceMock.NewMockRepository(ctrl)
		r := attendance.NewReconciler(repo)

		repo.EXPECT().FindInDateRange(ctx, day(1), day(2)).Return([]attendance.DailyAttendance{
			{ID: 7, EmployeeID: "101", AttendanceDate: day(1), OutTime: strPtr("18:00:00")},
		}, nil)
		repo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, rec *attendance.DailyAttendance) error {
				assert.Equal(t, int64(7), rec.ID)
				assert.Equal(t, strPtr("19:30:00"), rec.OutTime)
				return nil
			})
		repo.EXPECT().CreateBatch(ctx, gomock.Len(1)).Return(nil)

		res, err := r.Reconcile(ctx, nil, []attendance.Row{
			{EmployeeID: "101", Date: day(1), OutTime: strPtr("19:30:00")},
			{EmployeeID: "102", Date: day(2)},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Inserted)
		assert.Equal(t, 1, res.Updated)
	})

	t.Run("duplicate keys in one file keep the last row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := attendanceMock.NewMockRepository(ctrl)
		r := attendance.NewReconciler(repo)

		repo.EXPECT().FindInDateRange(ctx, day(1), day(1)).Return(nil, nil)
		repo.EXPECT().CreateBatch(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, batch []attendance.DailyAttendance) error {
				require.Len(t, batch, 1)
				assert.Equal(t, strPtr("20:00:00"), batch[0].OutTime)
				return nil
			})

		res, err := r.Reconcile(ctx, nil, []attendance.Row{
			{EmployeeID: "101", Date: day(1), OutTime: strPtr("18:00:00")},
			{EmployeeID: "101", Date: day(1), OutTime: strPtr("20:00:00")},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Inserted)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("storage failure is a reconciliation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := attendanceMock.NewMockRepository(ctrl)
		r := attendance.NewReconciler(repo)
		dbErr := errors.New("connection reset")

		repo.EXPECT().FindInDateRange(ctx, day(1), day(1)).Return(nil, nil)
		repo.EXPECT().CreateBatch(ctx, gomock.Any()).Return(dbErr)

		_, err := r.Reconcile(ctx, nil, []attendance.Row{{EmployeeID: "101", Date: day(1)}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, attendanceerrors.ErrReconciliation))
		assert.True(t, errors.Is(err, dbErr))

		var recErr *attendance.ReconciliationError
		require.True(t, errors.As(err, &recErr))
		assert.Equal(t, "insert", recErr.Op)
	})

	t.Run("update failure stops before insert", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := attendanceMock.NewMockRepository(ctrl)
		r := attendance.NewReconciler(repo)

		repo.EXPECT().FindInDateRange(ctx, day(1), day(2)).Return([]attendance.DailyAttendance{
			{ID: 1, EmployeeID: "101", AttendanceDate: day(1)},
		}, nil)
		repo.EXPECT().Update(ctx, gomock.Any()).Return(errors.New("deadlock"))

		_, err := r.Reconcile(ctx, nil, []attendance.Row{
			{EmployeeID: "101", Date: day(1)},
			{EmployeeID: "101", Date: day(2)},
		})
		assert.True(t, errors.Is(err, attendanceerrors.ErrReconciliation))
	})
}
