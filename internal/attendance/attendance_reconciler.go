package attendance

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// Row is a cleaned record whose label has already been resolved to an
// employee id.
type Row struct {
	EmployeeID string
	Date       time.Time
	InTime     *string
	OutTime    *string
	Duration   *string
}

// DateRange is the inclusive span of dates covered by one import.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func RangeOf(rows []Row) DateRange {
	var r DateRange
	for i, row := range rows {
		if i == 0 || row.Date.Before(r.From) {
			r.From = row.Date
		}
		if i == 0 || row.Date.After(r.To) {
			r.To = row.Date
		}
	}
	return r
}

type ReconcileResult struct {
	Inserted int
	Updated  int
	Skipped  int
	Range    DateRange
}

type Reconciler interface {
	Reconcile(ctx context.Context, tx *sql.Tx, rows []Row) (ReconcileResult, error)
}

type reconciler struct {
	repo   Repository
	logger *zap.Logger
}

func NewReconciler(repo Repository, logger ...*zap.Logger) Reconciler {
	l := zap.L().Named("attendance.reconciler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.reconciler")
	}
	return &reconciler{repo: repo, logger: l}
}

// Reconcile merges rows against what is already stored for their date range.
// Existing (employee, date) keys are updated in place, new keys are inserted
// in one batch. Within rows, the last occurrence of a key wins.
func (r *reconciler) Reconcile(ctx context.Context, tx *sql.Tx, rows []Row) (ReconcileResult, error) {
	if len(rows) == 0 {
		return ReconcileResult{}, nil
	}

	result := ReconcileResult{Range: RangeOf(rows)}

	latest := make(map[recordKey]int, len(rows))
	order := make([]recordKey, 0, len(rows))
	for i, row := range rows {
		k := keyOf(row.EmployeeID, row.Date)
		if _, dup := latest[k]; dup {
			result.Skipped++
		} else {
			order = append(order, k)
		}
		latest[k] = i
	}

	repo := r.repo
	if tx != nil {
		repo = r.repo.WithTx(tx)
	}

	existing, err := repo.FindInDateRange(ctx, result.Range.From, result.Range.To)
	if err != nil {
		return ReconcileResult{}, &ReconciliationError{Op: "find existing", Err: err}
	}
	stored := make(map[recordKey]DailyAttendance, len(existing))
	for _, rec := range existing {
		stored[keyOf(rec.EmployeeID, rec.AttendanceDate)] = rec
	}

	var inserts []DailyAttendance
	for _, k := range order {
		row := rows[latest[k]]
		if rec, ok := stored[k]; ok {
			rec.InTime = row.InTime
			rec.OutTime = row.OutTime
			rec.Duration = row.Duration
			if err := repo.Update(ctx, &rec); err != nil {
				return ReconcileResult{}, &ReconciliationError{Op: "update", Err: err}
			}
			result.Updated++
			continue
		}
		inserts = append(inserts, DailyAttendance{
			EmployeeID:     row.EmployeeID,
			AttendanceDate: row.Date,
			InTime:         row.InTime,
			OutTime:        row.OutTime,
			Duration:       row.Duration,
		})
	}

	if len(inserts) > 0 {
		if err := repo.CreateBatch(ctx, inserts); err != nil {
			return ReconcileResult{}, &ReconciliationError{Op: "insert", Err: err}
		}
		result.Inserted = len(inserts)
	}

	r.logger.Debug("attendance reconciled",
		zap.String("from", result.Range.From.Format(dateLayout)),
		zap.String("to", result.Range.To.Format(dateLayout)),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
