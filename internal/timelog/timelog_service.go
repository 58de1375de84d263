package timelog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hr-ops/internal/employee"
	"hr-ops/internal/shared/contextutil"
	timelogerrors "hr-ops/internal/timelog/errors"
	"hr-ops/internal/zoho"

	"go.uber.org/zap"
)

var clockLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"15:04",
	"15:04:05",
}

type SyncResult struct {
	From              time.Time
	To                time.Time
	Fetched           int
	Inserted          int
	SkippedUnknown    int
	SkippedIncomplete int
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
	l := zap.L().Named("timelog.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timelog.service")
	}
	return &service{db: db, repo: repo, employees: employees, api: api, logger: l}
}

// Sync copies Zoho Projects time logs for [from, to] into zoho_timelog_entry.
// Logs from unknown users, logs missing a field and logs already stored are
// counted and skipped; the rest are inserted in one transaction.
func (s *service) Sync(ctx context.Context, from, to time.Time) (SyncResult, error) {
	result := SyncResult{From: from, To: to}
	if to.Before(from) {
		return result, timelogerrors.ErrInvalidDateRange
	}
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("from", from.Format(dateLayout)),
		zap.String("to", to.Format(dateLayout)),
	)

	days, err := s.api.FetchTimelogs(ctx, from, to)
	if err != nil {
		log.Error("fetch zoho timelogs failed", zap.Error(err))
		return result, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin timelog transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	byEmail, err := s.employeesByEmail(ctx, tx, days)
	if err != nil {
		return result, fmt.Errorf("load employees by email: %w", err)
	}

	var (
		entries  []Entry
		seen     = make(map[entryKey]struct{})
		min, max time.Time
	)
	for _, day := range days {
		date, dateErr := time.Parse(dateLayout, strings.TrimSpace(day.Date))
		for _, d := range day.LogDetails {
			result.Fetched++

			email := strings.ToLower(strings.TrimSpace(d.AddedBy.Email))
			empID, ok := byEmail[email]
			if !ok {
				result.SkippedUnknown++
				log.Debug("skipping timelog from unknown user", zap.String("email", email), zap.String("date", day.Date))
				continue
			}
			if dateErr != nil {
				result.SkippedIncomplete++
				continue
			}
			entry, ok := toEntry(empID, date, d)
			if !ok {
				result.SkippedIncomplete++
				log.Debug("skipping incomplete timelog", zap.String("email", email), zap.String("date", day.Date))
				continue
			}
			k := keyOf(entry)
			if _, dup := seen[k]; dup {
				result.SkippedExisting++
				continue
			}
			seen[k] = struct{}{}
			entries = append(entries, entry)

			if min.IsZero() || date.Before(min) {
				min = date
			}
			if date.After(max) {
				max = date
			}
		}
	}

	if len(entries) > 0 {
		repo := s.repo.WithTx(tx)
		stored, err := repo.FindInDateRange(ctx, min, max)
		if err != nil {
			return result, timelogerrors.ErrStoreFailed.WithErr(err)
		}
		existing := make(map[entryKey]struct{}, len(stored))
		for _, e := range stored {
			existing[keyOf(e)] = struct{}{}
		}

		fresh := entries[:0]
		for _, e := range entries {
			if _, ok := existing[keyOf(e)]; ok {
				result.SkippedExisting++
				continue
			}
			fresh = append(fresh, e)
		}
		if err := repo.CreateBatch(ctx, fresh); err != nil {
			return result, timelogerrors.ErrStoreFailed.WithErr(err)
		}
		result.Inserted = len(fresh)
	}

	if err := tx.Commit(); err != nil {
		return result, timelogerrors.ErrStoreFailed.WithErr(err)
	}

	log.Info("zoho timelog sync finished",
		zap.Int("fetched", result.Fetched),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped_unknown", result.SkippedUnknown),
		zap.Int("skipped_incomplete", result.SkippedIncomplete),
		zap.Int("skipped_existing", result.SkippedExisting),
	)
	return result, nil
}

func (s *service) employeesByEmail(ctx context.Context, tx *sql.Tx, days []zoho.TimelogDay) (map[string]string, error) {
	set := make(map[string]struct{})
	var emails []string
	for _, day := range days {
		for _, d := range day.LogDetails {
			e := strings.ToLower(strings.TrimSpace(d.AddedBy.Email))
			if e == "" {
				continue
			}
			if _, ok := set[e]; !ok {
				set[e] = struct{}{}
				emails = append(emails, e)
			}
		}
	}

	found, err := s.employees.WithTx(tx).FindByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(found))
	for _, emp := range found {
		if emp.Email == nil {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(*emp.Email))] = emp.ID
	}
	return out, nil
}

func toEntry(empID string, date time.Time, d zoho.TimelogDetail) (Entry, bool) {
	project := strings.TrimSpace(d.Project.Name)
	task := strings.TrimSpace(d.ModuleDetail.Name)
	start, okStart := parseClock(d.StartTime)
	end, okEnd := parseClock(d.EndTime)
	hours, okHours := parseClock(d.LogHour)
	if project == "" || task == "" || !okStart || !okEnd || !okHours {
		return Entry{}, false
	}
	return Entry{
		EmployeeID:  empID,
		TimelogDate: date,
		Project:     project,
		Task:        task,
		StartTime:   start,
		EndTime:     end,
		LoggedHours: hours,
	}, true
}

func parseClock(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(clockLayout), true
		}
	}
	return "", false
}
