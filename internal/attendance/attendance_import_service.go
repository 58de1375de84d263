package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	attendanceerrors "hr-ops/internal/attendance/errors"
	"hr-ops/internal/employee"
	"hr-ops/internal/events"
	"hr-ops/internal/messaging/kafka"
	"hr-ops/internal/shared/contextutil"
	"hr-ops/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Stage string

const (
	StageReceived           Stage = "received"
	StageParsed             Stage = "parsed"
	StageCleaned            Stage = "cleaned"
	StageIdentitiesResolved Stage = "identities_resolved"
	StageReconciled         Stage = "reconciled"
	StageArchived           Stage = "archived"
	StageFailed             Stage = "failed"
)

const aggregateAttendanceImport = "attendance_import"

// Source is one spreadsheet handed to the pipeline. A non-empty Path means
// the file lives in the raw folder and is archived after a successful commit.
type Source struct {
	Name string
	Data []byte
	Path string
}

type ImportResult struct {
	ImportID         string
	ImportNumber     int64
	Source           string
	Stage            Stage
	FailedStage      Stage
	StartedAt        time.Time
	Range            DateRange
	Rows             int
	Excluded         int
	EmployeesCreated int
	SkippedLabels    []string
	Inserted         int
	Updated          int
	Skipped          int
	Archived         bool
	ArchivedPath     string
}

type ImportService interface {
	Import(ctx context.Context, src Source) (ImportResult, error)
	ImportFromFolder(ctx context.Context) (ImportResult, error)
}

type ImportOption func(*importService)

func WithArchiver(a Archiver) ImportOption {
	return func(s *importService) { s.archiver = a }
}

func WithImportLock(l ImportLock) ImportOption {
	return func(s *importService) { s.lock = l }
}

func WithObserver(o Observer) ImportOption {
	return func(s *importService) {
		if o != nil {
			s.observer = o
		}
	}
}

func WithOutbox(repo kafka.OutboxRepository) ImportOption {
	return func(s *importService) { s.outbox = repo }
}

func WithCounter(repo counter.Repository) ImportOption {
	return func(s *importService) { s.counter = repo }
}

func WithParseOptions(opts ParseOptions) ImportOption {
	return func(s *importService) { s.parseOpts = opts }
}

func WithRawFolder(dir string) ImportOption {
	return func(s *importService) { s.rawFolder = dir }
}

func WithLogger(logger *zap.Logger) ImportOption {
	return func(s *importService) {
		if logger != nil {
			s.logger = logger.Named("attendance.service")
		}
	}
}

type importService struct {
	db         *sql.DB
	resolver   employee.Resolver
	reconciler Reconciler
	archiver   Archiver
	lock       ImportLock
	observer   Observer
	outbox     kafka.OutboxRepository
	counter    counter.Repository
	parseOpts  ParseOptions
	rawFolder  string
	now        func() time.Time
	logger     *zap.Logger
}

func NewImportService(db *sql.DB, resolver employee.Resolver, reconciler Reconciler, opts ...ImportOption) ImportService {
	s := &importService{
		db:         db,
		resolver:   resolver,
		reconciler: reconciler,
		observer:   NopObserver{},
		parseOpts:  DefaultParseOptions(),
		now:        time.Now,
		logger:     zap.L().Named("attendance.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import runs one file through parse, clean, identity resolution and
// reconciliation. Employee creation, record writes and the outbox event
// share one transaction; nothing is written unless all of them succeed.
func (s *importService) Import(ctx context.Context, src Source) (ImportResult, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return s.rejected(ctx, src, err)
	}
	defer release()

	return s.run(ctx, src)
}

// ImportFromFolder imports the first spreadsheet (by name) in the raw folder
// and archives it once the data is committed.
func (s *importService) ImportFromFolder(ctx context.Context) (ImportResult, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return s.rejected(ctx, Source{Name: s.rawFolder}, err)
	}
	defer release()

	path, err := s.nextRawFile()
	if err != nil {
		return s.rejected(ctx, Source{Name: s.rawFolder}, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s.rejected(ctx, Source{Name: filepath.Base(path)}, fmt.Errorf("read %s: %w", path, err))
	}

	return s.run(ctx, Source{Name: filepath.Base(path), Data: data, Path: path})
}

func (s *importService) acquire(ctx context.Context) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	return s.lock.Acquire(ctx)
}

func (s *importService) rejected(ctx context.Context, src Source, err error) (ImportResult, error) {
	result := ImportResult{
		Source:      src.Name,
		Stage:       StageFailed,
		FailedStage: StageReceived,
		StartedAt:   s.now(),
	}
	s.observer.ImportFailed(ctx, result, err)
	return result, err
}

func (s *importService) nextRawFile() (string, error) {
	if s.rawFolder == "" {
		return "", attendanceerrors.ErrNoSourceFile
	}
	entries, err := os.ReadDir(s.rawFolder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", attendanceerrors.ErrNoSourceFile
		}
		return "", fmt.Errorf("list raw folder: %w", err)
	}
	// ReadDir returns entries sorted by name.
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".xls", ".xlsx":
			return filepath.Join(s.rawFolder, entry.Name()), nil
		}
	}
	return "", attendanceerrors.ErrNoSourceFile
}

func (s *importService) run(ctx context.Context, src Source) (ImportResult, error) {
	result := ImportResult{
		ImportID:  uuid.NewString(),
		Source:    src.Name,
		Stage:     StageReceived,
		StartedAt: s.now(),
	}
	s.observer.ImportStarted(ctx, result)

	fail := func(stage Stage, err error) (ImportResult, error) {
		result.Stage = StageFailed
		result.FailedStage = stage
		s.observer.ImportFailed(ctx, result, err)
		return result, &StageError{Stage: stage, Err: err}
	}
	advance := func(stage Stage) {
		result.Stage = stage
		s.observer.StageCompleted(ctx, result, stage)
	}

	raw, err := ReadSheet(bytes.NewReader(src.Data), src.Name)
	if err != nil {
		return fail(StageParsed, err)
	}
	sheet, err := ParseSheet(raw, s.parseOpts)
	if err != nil {
		return fail(StageParsed, err)
	}
	advance(StageParsed)

	records, labels, unlabeled := clean(sheet)
	result.Excluded = unlabeled
	if len(records) == 0 {
		return fail(StageCleaned, attendanceerrors.ErrNoAttendanceRows)
	}
	advance(StageCleaned)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(StageIdentitiesResolved, fmt.Errorf("begin import transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	resolution, err := s.resolver.Resolve(ctx, tx, labels)
	if err != nil {
		return fail(StageIdentitiesResolved, err)
	}
	for _, skipped := range resolution.Skipped {
		result.SkippedLabels = append(result.SkippedLabels, skipped.Label)
		s.observer.LabelSkipped(ctx, result, skipped.Label, skipped.Err)
	}
	result.EmployeesCreated = len(resolution.Created)

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		id, ok := resolution.Lookup(rec.Label)
		if !ok {
			result.Excluded++
			continue
		}
		rows = append(rows, Row{
			EmployeeID: id,
			Date:       rec.Date,
			InTime:     rec.FirstIn,
			OutTime:    rec.LastOut,
			Duration:   rec.GrossHours,
		})
	}
	if len(rows) == 0 {
		return fail(StageIdentitiesResolved, attendanceerrors.ErrNoAttendanceRows)
	}
	result.Rows = len(rows)
	advance(StageIdentitiesResolved)

	merged, err := s.reconciler.Reconcile(ctx, tx, rows)
	if err != nil {
		return fail(StageReconciled, err)
	}
	result.Range = merged.Range
	result.Inserted = merged.Inserted
	result.Updated = merged.Updated
	result.Skipped = merged.Skipped

	if s.counter != nil {
		n, err := s.counter.WithTx(tx).GetNextValue(ctx, counter.AttendanceImport)
		if err != nil {
			return fail(StageReconciled, &ReconciliationError{Op: "next import number", Err: err})
		}
		result.ImportNumber = n
	}

	if s.outbox != nil {
		if err := s.queueImported(ctx, tx, result); err != nil {
			return fail(StageReconciled, &ReconciliationError{Op: "queue imported event", Err: err})
		}
	}

	if err := tx.Commit(); err != nil {
		return fail(StageReconciled, &ReconciliationError{Op: "commit", Err: err})
	}
	advance(StageReconciled)

	if src.Path != "" && s.archiver != nil {
		dest, err := s.archiver.Archive(ctx, src.Path)
		if err != nil {
			s.observer.ArchiveFailed(ctx, result, &ArchivalError{Path: src.Path, Err: err})
		} else {
			result.Archived = true
			result.ArchivedPath = dest
			advance(StageArchived)
		}
	}

	s.observer.ImportFinished(ctx, result)
	return result, nil
}

// clean keeps records that sit under a label and returns the distinct labels
// in first-seen order. Records above the first label are counted, not kept.
func clean(sheet *Sheet) ([]Record, []string, int) {
	var (
		records   []Record
		labels    []string
		unlabeled int
	)
	seen := make(map[string]struct{})
	for rec := range sheet.Records() {
		if rec.Label == "" {
			unlabeled++
			continue
		}
		if _, ok := seen[rec.Label]; !ok {
			seen[rec.Label] = struct{}{}
			labels = append(labels, rec.Label)
		}
		records = append(records, rec)
	}
	return records, labels, unlabeled
}

func (s *importService) queueImported(ctx context.Context, tx *sql.Tx, result ImportResult) error {
	rid := contextutil.GetRequestID(ctx)
	payload := events.AttendanceImportedEvent{
		EventType:  events.AttendanceImportedType,
		ImportID:   result.ImportID,
		RequestID:  rid,
		Source:     result.Source,
		From:       result.Range.From.Format(dateLayout),
		To:         result.Range.To.Format(dateLayout),
		Inserted:   result.Inserted,
		Updated:    result.Updated,
		OccurredAt: s.now().UTC(),
	}
	event, err := kafka.NewOutboxEvent(
		rid,
		aggregateAttendanceImport,
		result.ImportID,
		events.AttendanceImportedType,
		events.AttendanceImportedTopic,
		payload,
	)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return err
	}
	s.logger.Debug("attendance imported event queued",
		zap.String("request_id", rid),
		zap.String("import_id", result.ImportID),
		zap.String("outbox_id", event.ID),
	)
	return nil
}
