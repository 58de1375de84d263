package attendance

import (
	"fmt"
	"strings"

	attendanceerrors "hr-ops/internal/attendance/errors"
	"hr-ops/internal/shared/apperror"
)

// FormatError reports required columns that were not found after header
// normalization, together with what the header row did contain.
type FormatError struct {
	HeaderRow int
	Missing   []string
	Available []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("missing required columns [%s] in header row %d; available columns [%s]",
		strings.Join(e.Missing, ", "), e.HeaderRow+1, strings.Join(e.Available, ", "))
}

func (e *FormatError) Is(target error) bool {
	return target == attendanceerrors.ErrInvalidFormat
}

func (e *FormatError) AppError() *apperror.AppError {
	return attendanceerrors.ErrInvalidFormat.WithDetails(map[string]any{
		"missing_columns": e.Missing,
	})
}

// ReconciliationError wraps a storage failure during the merge. The import
// transaction is rolled back whenever one is returned.
type ReconciliationError struct {
	Op  string
	Err error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconcile attendance: %s: %v", e.Op, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

func (e *ReconciliationError) Is(target error) bool {
	return target == attendanceerrors.ErrReconciliation
}

func (e *ReconciliationError) AppError() *apperror.AppError {
	return attendanceerrors.ErrReconciliation
}

// ArchivalError is logged only; committed data is never unwound for it.
type ArchivalError struct {
	Path string
	Err  error
}

func (e *ArchivalError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Path, e.Err)
}

func (e *ArchivalError) Unwrap() error {
	return e.Err
}

// StageError records the pipeline stage an import failed to reach.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("attendance import failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
