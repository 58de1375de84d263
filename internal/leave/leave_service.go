package leave

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"hr-ops/internal/employee"
	leaveerrors "hr-ops/internal/leave/errors"
	"hr-ops/internal/shared/contextutil"
	"hr-ops/internal/zoho"

	"go.uber.org/zap"
)

type SyncResult struct {
	From              time.Time
	To                time.Time
	Records           int
	Inserted          int
	SkippedUnapproved int
	SkippedUnknown    int
	SkippedInvalid    int
	SkippedExisting   int
}

type Service interface {
	Sync(ctx context.Context, from, to time.Time) (SyncResult, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	api       zoho.API
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, api zoho.API, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, employees: employees, api: api, logger: l}
}

// Sync stores the approved Zoho People leave days overlapping [from, to].
// Employees are matched by name, case-insensitively; days already stored for
// the same employee, date and leave type are left alone.
func (s *service) Sync(ctx context.Context, from, to time.Time) (SyncResult, error) {
	result := SyncResult{From: from, To: to}
	if to.Before(from) {
		return result, leaveerrors.ErrInvalidDateRange
	}
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("from", from.Format(dateLayout)),
		zap.String("to", to.Format(dateLayout)),
	)

	records, err := s.api.FetchLeaveRecords(ctx, from, to)
	if err != nil {
		log.Error("fetch zoho leave records failed", zap.Error(err))
		return result, err
	}
	result.Records = len(records)
	if len(records) == 0 {
		log.Info("no leave records received")
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin leave transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	all, err := s.employees.WithTx(tx).FindAll(ctx)
	if err != nil {
		return result, fmt.Errorf("load employees: %w", err)
	}
	byName := make(map[string]string, len(all))
	for _, emp := range all {
		byName[normalizeName(emp.Name)] = emp.ID
	}

	var (
		leaves   []EmployeeLeave
		seen     = make(map[leaveKey]struct{})
		min, max time.Time
	)
	for _, id := range slices.Sorted(maps.Keys(records)) {
		rec := records[id]
		if !rec.Approved() {
			result.SkippedUnapproved++
			continue
		}
		empID, ok := byName[normalizeName(rec.Employee)]
		if !ok {
			result.SkippedUnknown++
			log.Warn("leave employee not found, record skipped",
				zap.String("record_id", id),
				zap.String("employee", rec.Employee),
			)
			continue
		}

		reason := strings.TrimSpace(rec.Reason)
		if reason == "" {
			reason = defaultReason
		}
		for _, day := range slices.Sorted(maps.Keys(rec.Days)) {
			date, err := time.Parse(dateLayout, strings.TrimSpace(day))
			if err != nil {
				result.SkippedInvalid++
				log.Warn("leave day has an invalid date", zap.String("record_id", id), zap.String("date", day))
				continue
			}
			l := EmployeeLeave{
				EmployeeID:    empID,
				LeaveDate:     date,
				LeaveType:     leaveTypeOf(rec.Days[day]),
				ZohoLeaveType: rec.LeaveType,
				Reason:        reason,
			}
			k := keyOf(l)
			if _, dup := seen[k]; dup {
				result.SkippedExisting++
				continue
			}
			seen[k] = struct{}{}
			leaves = append(leaves, l)

			if min.IsZero() || date.Before(min) {
				min = date
			}
			if date.After(max) {
				max = date
			}
		}
	}

	if len(leaves) > 0 {
		repo := s.repo.WithTx(tx)
		stored, err := repo.FindInDateRange(ctx, min, max)
		if err != nil {
			return result, leaveerrors.ErrStoreFailed.WithErr(err)
		}
		existing := make(map[leaveKey]struct{}, len(stored))
		for _, l := range stored {
			existing[keyOf(l)] = struct{}{}
		}

		fresh := leaves[:0]
		for _, l := range leaves {
			if _, ok := existing[keyOf(l)]; ok {
				result.SkippedExisting++
				continue
			}
			fresh = append(fresh, l)
		}
		if err := repo.CreateBatch(ctx, fresh); err != nil {
			return result, leaveerrors.ErrStoreFailed.WithErr(err)
		}
		result.Inserted = len(fresh)
	}

	if err := tx.Commit(); err != nil {
		return result, leaveerrors.ErrStoreFailed.WithErr(err)
	}

	log.Info("zoho leave sync finished",
		zap.Int("records", result.Records),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped_unapproved", result.SkippedUnapproved),
		zap.Int("skipped_unknown", result.SkippedUnknown),
		zap.Int("skipped_invalid", result.SkippedInvalid),
		zap.Int("skipped_existing", result.SkippedExisting),
	)
	return result, nil
}

// A half day reports LeaveCount 0.5; Session 1 is the morning.
func leaveTypeOf(day zoho.LeaveDay) string {
	if day.LeaveCount == 0.5 {
		if day.Session == 1 {
			return TypeFirstHalf
		}
		return TypeSecondHalf
	}
	return TypeFullDay
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
