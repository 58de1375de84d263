package attendanceerrors

import (
	"net/http"

	"hr-ops/internal/shared/apperror"
)

var (
	ErrEmptyInput = apperror.New(
		apperror.CodeEmptyInput,
		"attendance file contains no data",
		http.StatusBadRequest,
	)
	ErrInvalidFormat = apperror.New(
		apperror.CodeInvalidFormat,
		"attendance file is missing required columns",
		http.StatusUnprocessableEntity,
	)
	ErrUnreadableFile = apperror.New(
		apperror.CodeInvalidFormat,
		"attendance file could not be read as a spreadsheet",
		http.StatusUnprocessableEntity,
	)
	ErrNoAttendanceRows = apperror.New(
		apperror.CodeInvalidFormat,
		"attendance file has no rows belonging to a valid employee",
		http.StatusUnprocessableEntity,
	)
	ErrMissingFile = apperror.New(
		apperror.CodeInvalidInput,
		"file is required",
		http.StatusBadRequest,
	)
	ErrFileTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"file exceeds the upload size limit",
		http.StatusRequestEntityTooLarge,
	)
	ErrNoSourceFile = apperror.New(
		apperror.CodeNotFound,
		"no attendance file found in the raw folder",
		http.StatusNotFound,
	)
	ErrImportInProgress = apperror.New(
		apperror.CodeConflict,
		"another attendance import is in progress",
		http.StatusConflict,
	)
	ErrReconciliation = apperror.New(
		apperror.CodeInternalError,
		"failed to store attendance records",
		http.StatusInternalServerError,
	)
)
